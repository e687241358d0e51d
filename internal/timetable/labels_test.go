package timetable

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingEquipment struct {
	items map[uuid.UUID]*model.Equipment
	fail  map[uuid.UUID]bool
	calls int
}

func (c *countingEquipment) GetEquipment(_ context.Context, id uuid.UUID) (*model.Equipment, error) {
	c.calls++
	if c.fail[id] {
		return nil, errors.New("db down")
	}
	return c.items[id], nil
}

func TestLabelEntries(t *testing.T) {
	sem := uuid.New()
	missing := uuid.New()
	broken := uuid.New()
	lookup := &countingEquipment{
		items: map[uuid.UUID]*model.Equipment{sem: {ID: sem, Name: "SEM"}},
		fail:  map[uuid.UUID]bool{broken: true},
	}
	logs := []*model.OperatorWorkLog{
		{EquipmentID: sem},
		{EquipmentID: missing},
		{EquipmentID: sem},
		{EquipmentID: broken},
	}

	entries := LabelEntries(context.Background(), logs, lookup, zap.NewNop())

	assert.Len(t, entries, 4)
	assert.Equal(t, "SEM", entries[0].Label)
	assert.Equal(t, missing.String()[:8], entries[1].Label)
	assert.Equal(t, "SEM", entries[2].Label)
	assert.Equal(t, broken.String()[:8], entries[3].Label)
	assert.Same(t, logs[1], entries[1].Log)
	assert.Equal(t, 3, lookup.calls, "each equipment is looked up once")
}
