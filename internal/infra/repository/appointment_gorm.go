package repository

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	domain "github.com/agendia-app/agendia/internal/domain/appointment"
	"github.com/agendia-app/agendia/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Escrita
// --------------------------------------------------

func (r *AppointmentGormRepository) Save(ctx context.Context, ap *domain.Appointment) error {
	rec := toRecord(ap)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *AppointmentGormRepository) Update(ctx context.Context, ap *domain.Appointment) error {
	rec := toRecord(ap)
	return r.db.WithContext(ctx).Save(&rec).Error
}

// --------------------------------------------------
// Leitura
// --------------------------------------------------

func (r *AppointmentGormRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var rec models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toEntity(&rec)
}

func (r *AppointmentGormRepository) FindByExternalRef(ctx context.Context, externalEventID string) (*domain.Appointment, error) {
	var rec models.Appointment
	if err := r.db.WithContext(ctx).
		Where("external_event_id = ?", externalEventID).
		First(&rec).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toEntity(&rec)
}

func (r *AppointmentGormRepository) FindByDateRange(ctx context.Context, q domain.DateRangeQuery) ([]*domain.Appointment, error) {
	var recs []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"user_id = ? AND start_time >= ? AND start_time <= ?",
			q.UserID, q.Start, q.End,
		).
		Order("start_time ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}

	apps := make([]*domain.Appointment, 0, len(recs))
	for i := range recs {
		ap, err := toEntity(&recs[i])
		if err != nil {
			return nil, err
		}
		apps = append(apps, ap)
	}

	return apps, nil
}

// --------------------------------------------------
// Mapeamento entidade ⇄ registro
// --------------------------------------------------

func toRecord(ap *domain.Appointment) models.Appointment {
	var attendees string
	if list := ap.Attendees(); len(list) > 0 {
		if b, err := json.Marshal(list); err == nil {
			attendees = string(b)
		}
	}

	return models.Appointment{
		ID:              ap.ID(),
		UserID:          ap.UserID(),
		Title:           ap.Title(),
		Description:     ap.Description(),
		Location:        ap.Location(),
		StartTime:       ap.Start(),
		EndTime:         ap.End(),
		Attendees:       attendees,
		Source:          string(ap.Source()),
		Status:          string(ap.Status()),
		ExternalEventID: ap.ExternalEventID(),
		CreatedAt:       ap.CreatedAt(),
		UpdatedAt:       ap.UpdatedAt(),
	}
}

func toEntity(rec *models.Appointment) (*domain.Appointment, error) {
	var attendees []string
	if rec.Attendees != "" {
		if err := json.Unmarshal([]byte(rec.Attendees), &attendees); err != nil {
			attendees = nil
		}
	}

	return domain.New(domain.Props{
		ID:              rec.ID,
		UserID:          rec.UserID,
		Title:           rec.Title,
		Description:     rec.Description,
		Location:        rec.Location,
		Start:           rec.StartTime,
		End:             rec.EndTime,
		Attendees:       attendees,
		Source:          domain.Source(rec.Source),
		Status:          domain.Status(rec.Status),
		ExternalEventID: rec.ExternalEventID,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
