package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
)

func TestEffect_PorTipo(t *testing.T) {
	cases := []struct {
		tipo     entity.MovementType
		quantity int64
		want     int64
	}{
		{entity.MovementTypeIn, 10, 10},
		{entity.MovementTypeTransferIn, 7, 7},
		{entity.MovementTypeReturn, 3, 3},
		{entity.MovementTypeOut, 10, -10},
		{entity.MovementTypeTransferOut, 7, -7},
		{entity.MovementTypeAdjust, 5, 5},
		{entity.MovementTypeAdjust, -5, -5}, // único tipo con cantidad firmada
	}
	for _, tc := range cases {
		m := &entity.MovementRecord{Type: tc.tipo, Quantity: tc.quantity}
		assert.Equal(t, tc.want, m.Effect(), "tipo %s cantidad %d", tc.tipo, tc.quantity)
	}
}

func TestComplete_DesdePending(t *testing.T) {
	m := &entity.MovementRecord{Status: entity.MovementStatusPending}
	require.NoError(t, m.Complete())
	assert.Equal(t, entity.MovementStatusCompleted, m.Status)
}

func TestCancel_DesdePending(t *testing.T) {
	m := &entity.MovementRecord{Status: entity.MovementStatusPending}
	require.NoError(t, m.Cancel())
	assert.Equal(t, entity.MovementStatusCancelled, m.Status)
}

func TestEstadosTerminales_NoTransicionan(t *testing.T) {
	completed := &entity.MovementRecord{Status: entity.MovementStatusCompleted}
	assert.ErrorIs(t, completed.Cancel(), domain.ErrConflict)
	assert.ErrorIs(t, completed.Complete(), domain.ErrConflict)
	assert.Equal(t, entity.MovementStatusCompleted, completed.Status, "el estado terminal no cambia")

	cancelled := &entity.MovementRecord{Status: entity.MovementStatusCancelled}
	assert.ErrorIs(t, cancelled.Complete(), domain.ErrConflict)
	assert.ErrorIs(t, cancelled.Cancel(), domain.ErrConflict)
	assert.Equal(t, entity.MovementStatusCancelled, cancelled.Status)
}
