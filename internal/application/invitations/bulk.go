package invitations

import (
	"context"
	"strconv"
	"strings"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/bus"
)

// BulkEntry is one row of a bulk import.
type BulkEntry struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	MaxGuests int    `json:"maxGuests"`
}

// BulkOutcome is the result for one entry; exactly one of Code or Err is set.
type BulkOutcome struct {
	Index int       `json:"index"`
	Entry BulkEntry `json:"entry"`
	Code  string    `json:"code,omitempty"`
	Link  string    `json:"link,omitempty"`
	Err   error     `json:"-"`
	Error string    `json:"error,omitempty"`
	Kind  string    `json:"kind,omitempty"`
}

func (o *BulkOutcome) fail(err error) {
	o.Code, o.Link = "", ""
	o.Err = err
	o.Error = err.Error()
	o.Kind = Kind(err)
}

func (o BulkOutcome) Success() bool { return o.Err == nil }

// BulkSummary counts outcomes the way the bulk_import audit entry records them.
type BulkSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

func Summarize(outcomes []BulkOutcome) BulkSummary {
	sum := BulkSummary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Success() {
			sum.Successful++
		} else {
			sum.Failed++
		}
	}
	return sum
}

// BulkCreate creates one pending invitation per entry. Entries fail independently;
// the successful ones are written in a single batch. The returned error is non-nil
// only when that batch write itself fails, in which case every prepared entry is
// marked failed as well.
func (s *Service) BulkCreate(ctx context.Context, entries []BulkEntry, actor string) ([]BulkOutcome, error) {
	outcomes := make([]BulkOutcome, len(entries))
	taken := make(map[string]bool, len(entries))
	var batch []*domain.Invitation
	var batchIdx []int

	for i, e := range entries {
		outcomes[i] = BulkOutcome{Index: i, Entry: e}
		inv, err := s.newInvitation(e.Name, e.Email, e.MaxGuests)
		if err != nil {
			outcomes[i].fail(err)
			continue
		}
		code, err := s.freeCode(ctx, taken)
		if err != nil {
			outcomes[i].fail(err)
			continue
		}
		taken[code] = true
		inv.Code = code
		outcomes[i].Code = code
		outcomes[i].Link = s.Link(code)
		batch = append(batch, inv)
		batchIdx = append(batchIdx, i)
	}

	var commitErr error
	if len(batch) > 0 {
		conflicts, err := s.Store.CreateBatch(ctx, batch)
		if err != nil {
			commitErr = err
			for _, i := range batchIdx {
				outcomes[i].fail(err)
			}
		} else {
			lost := make(map[string]bool, len(conflicts))
			for _, c := range conflicts {
				lost[c] = true
			}
			for n, i := range batchIdx {
				if lost[outcomes[i].Code] {
					outcomes[i].fail(ErrCodeConflict)
					continue
				}
				s.mail(ctx, batch[n])
			}
		}
	}

	sum := Summarize(outcomes)
	s.Store.AppendLog(ctx, domain.ActionBulkImport, domain.SystemActor, sum, actorOrSystem(actor))
	s.Metrics.InvitationsCreated("bulk", sum.Successful)
	if sum.Successful > 0 {
		s.emit(ctx, bus.SubjectBulkImported, sum)
	}
	return outcomes, commitErr
}

// freeCode draws codes until one is neither stored nor already used in this batch.
func (s *Service) freeCode(ctx context.Context, taken map[string]bool) (string, error) {
	for attempt := 0; attempt < bulkAttempts; attempt++ {
		code := s.newCode()
		if taken[code] {
			s.Metrics.CodeCollision()
			continue
		}
		exists, err := s.Store.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		s.Metrics.CodeCollision()
	}
	return "", ErrCodeSpaceExhausted
}

// ParseBulkRows reads newline-delimited "name,email,maxGuests" rows. The last field
// is the quota and the one before it the e-mail, so names may contain commas and
// are kept as written.
// Blank lines are skipped. A row with too few fields or a non-numeric quota gets
// MaxGuests 0 and fails validation when imported.
func ParseBulkRows(text string) []BulkEntry {
	var out []BulkEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		last := strings.LastIndex(line, ",")
		prev := -1
		if last > 0 {
			prev = strings.LastIndex(line[:last], ",")
		}
		if prev < 0 {
			name, _, _ := strings.Cut(line, ",")
			out = append(out, BulkEntry{Name: strings.TrimSpace(name)})
			continue
		}
		quota, err := strconv.Atoi(strings.TrimSpace(line[last+1:]))
		if err != nil {
			quota = 0
		}
		out = append(out, BulkEntry{
			Name:      strings.TrimSpace(line[:prev]),
			Email:     strings.TrimSpace(line[prev+1 : last]),
			MaxGuests: quota,
		})
	}
	return out
}
