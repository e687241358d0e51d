package timetable

import (
	"context"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EquipmentLookup источник названий оборудования. (nil, nil), если не найдено.
type EquipmentLookup interface {
	GetEquipment(ctx context.Context, id uuid.UUID) (*model.Equipment, error)
}

// LabelEntries подписывает записи названием оборудования.
// Если оборудование не нашлось, подписью служит начало его id.
func LabelEntries(ctx context.Context, logs []*model.OperatorWorkLog, equipment EquipmentLookup, logger *zap.Logger) []Entry {
	names := make(map[uuid.UUID]string)
	entries := make([]Entry, 0, len(logs))

	for _, l := range logs {
		name, ok := names[l.EquipmentID]
		if !ok {
			name = l.EquipmentID.String()[:8]
			eq, err := equipment.GetEquipment(ctx, l.EquipmentID)
			if err != nil {
				logger.Warn("Failed to get equipment for label", zap.String("equipment_id", l.EquipmentID.String()), zap.Error(err))
			} else if eq != nil {
				name = eq.Name
			}
			names[l.EquipmentID] = name
		}
		entries = append(entries, Entry{Log: l, Label: name})
	}
	return entries
}
