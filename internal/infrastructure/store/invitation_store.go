package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvitationStore is the only code that reads or writes guests, deleted_guests and logs.
type InvitationStore struct {
	DB *gorm.DB
}

// ListFilter narrows List. Zero Limit means no limit.
type ListFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}

func (s *InvitationStore) Exists(ctx context.Context, code string) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Invitation{}).Where("code = ?", code).Count(&n).Error; err != nil {
		return false, wrap(err)
	}
	return n > 0, nil
}

// Create inserts inv only if its code is free. A taken code yields ErrCodeConflict
// and leaves the existing record untouched.
func (s *InvitationStore) Create(ctx context.Context, inv *domain.Invitation) error {
	return createIfAbsent(s.DB.WithContext(ctx), inv)
}

func createIfAbsent(tx *gorm.DB, inv *domain.Invitation) error {
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(inv)
	if result.Error != nil {
		return wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCodeConflict
	}
	return nil
}

// CreateBatch writes invs in one transaction. Records whose code was taken in the
// meantime are skipped and returned; the rest commit together.
func (s *InvitationStore) CreateBatch(ctx context.Context, invs []*domain.Invitation) ([]string, error) {
	var conflicts []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflicts = conflicts[:0]
		for _, inv := range invs {
			err := createIfAbsent(tx, inv)
			if errors.Is(err, ErrCodeConflict) {
				conflicts = append(conflicts, inv.Code)
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}
	return conflicts, nil
}

func (s *InvitationStore) Get(ctx context.Context, code string) (*domain.Invitation, error) {
	var inv domain.Invitation
	if err := s.DB.WithContext(ctx).First(&inv, "code = ?", code).Error; err != nil {
		return nil, wrap(err)
	}
	return &inv, nil
}

// Update merges fields (column name -> value) into the record and returns the
// re-read result. updated_at is always refreshed.
func (s *InvitationStore) Update(ctx context.Context, code string, fields map[string]interface{}) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, "code = ?", code).Error; err != nil {
			return err
		}
		upd := make(map[string]interface{}, len(fields)+1)
		for k, v := range fields {
			upd[k] = v
		}
		upd["updated_at"] = time.Now()
		if err := tx.Model(&domain.Invitation{}).Where("code = ?", code).Updates(upd).Error; err != nil {
			return err
		}
		return tx.First(&inv, "code = ?", code).Error
	})
	if err != nil {
		return nil, wrap(err)
	}
	return &inv, nil
}

// Delete archives the record into deleted_guests, then removes it. A previous
// archive row for the same code is overwritten.
func (s *InvitationStore) Delete(ctx context.Context, code, deletedBy string) (*domain.DeletedInvitation, error) {
	var archived *domain.DeletedInvitation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv domain.Invitation
		if err := tx.First(&inv, "code = ?", code).Error; err != nil {
			return err
		}
		archived = inv.Archive(deletedBy, time.Now())
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(archived).Error; err != nil {
			return err
		}
		return tx.Where("code = ?", code).Delete(&domain.Invitation{}).Error
	})
	if err != nil {
		return nil, wrap(err)
	}
	return archived, nil
}

// List returns one page of records, newest first, and the total matching count.
func (s *InvitationStore) List(ctx context.Context, f ListFilter) ([]domain.Invitation, int64, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Invitation{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	if f.Search != "" {
		var all []domain.Invitation
		if err := q.Order("created_at DESC").Find(&all).Error; err != nil {
			return nil, 0, wrap(err)
		}
		matched := filterFolded(all, f.Search)
		return paginate(matched, f.Offset, f.Limit), int64(len(matched)), nil
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}
	var out []domain.Invitation
	page := q.Order("created_at DESC")
	if f.Limit > 0 {
		page = page.Limit(f.Limit).Offset(f.Offset)
	}
	if err := page.Find(&out).Error; err != nil {
		return nil, 0, wrap(err)
	}
	return out, total, nil
}

func filterFolded(rows []domain.Invitation, term string) []domain.Invitation {
	out := rows[:0:0]
	for _, r := range rows {
		if validation.ContainsFolded(r.Code, term) ||
			validation.ContainsFolded(r.Name, term) ||
			validation.ContainsFolded(r.Email, term) ||
			validation.ContainsFolded(r.Status, term) {
			out = append(out, r)
		}
	}
	return out
}

func paginate(rows []domain.Invitation, offset, limit int) []domain.Invitation {
	if offset >= len(rows) {
		return []domain.Invitation{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// ListAll returns every record, newest first.
func (s *InvitationStore) ListAll(ctx context.Context) ([]domain.Invitation, error) {
	var out []domain.Invitation
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, wrap(err)
	}
	return out, nil
}

// AppendLog records an audit entry. Failures are logged and swallowed so they
// never abort the operation being audited.
func (s *InvitationStore) AppendLog(ctx context.Context, action, target string, details interface{}, actor string) {
	entry := domain.LogEntry{Action: action, Target: target, Actor: actor}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			log.Warn().Err(err).Str("action", action).Str("target", target).Msg("audit details not serializable")
		} else {
			entry.Details = datatypes.JSON(raw)
		}
	}
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Warn().Err(err).Str("action", action).Str("target", target).Msg("audit log write failed")
	}
}

// RecentLogs returns the latest audit entries, newest first.
func (s *InvitationStore) RecentLogs(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	var out []domain.LogEntry
	if err := s.DB.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).Limit(limit).Find(&out).Error; err != nil {
		return nil, wrap(err)
	}
	return out, nil
}
