package dal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mattn/go-sqlite3"

	"sedcoRecords/internal/db"
	"sedcoRecords/internal/report"
	"sedcoRecords/models"
	"sedcoRecords/repository"
)

const (
	msgRetry              = "Operation failed. Please try again."
	msgUnavailable        = "The data store is unavailable."
	msgInvalidLogin       = "Invalid email or password"
	msgWrongPassword      = "Current password is incorrect"
	msgPasswordUpdated    = "Password updated successfully"
	msgPasswordFailed     = "Failed to update password"
	recentActivitiesLimit = 10
)

// Hasher is the credential scheme shared by login and password change.
type Hasher interface {
	Hash(password []byte) (string, error)
	Compare(hash string, password []byte) error
}

// Service implements every data-access operation on top of one Store.
type Service struct {
	store   *db.Store
	hasher  Hasher
	reports *report.Engine
}

// New wires a Service to the process store.
func New(store *db.Store, hasher Hasher) *Service {
	return &Service{store: store, hasher: hasher, reports: report.NewEngine(store)}
}

// Authenticate verifies an email/password pair and returns the user summary.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (res Result[*models.UserSummary]) {
	defer recoverInto(&res, "authenticate")
	h, err := s.store.Ensure(ctx)
	if err != nil {
		return failure[*models.UserSummary]("authenticate", err)
	}
	u, err := repository.NewUserRepository(h).GetByEmail(ctx, email)
	if err != nil {
		return failure[*models.UserSummary]("authenticate", err)
	}
	if u == nil {
		return fail[*models.UserSummary](ReasonCredentialMismatch, msgInvalidLogin)
	}
	if err := s.hasher.Compare(u.Password, []byte(password)); err != nil {
		return fail[*models.UserSummary](ReasonCredentialMismatch, msgInvalidLogin)
	}
	return ok(u.Summary(), "")
}

// ListEntrepreneurs returns every record's list-view fields ordered by name.
func (s *Service) ListEntrepreneurs(ctx context.Context) (res Result[[]models.EntrepreneurSummary]) {
	defer recoverInto(&res, "list entrepreneurs")
	repo, err := s.entrepreneurs(ctx)
	if err != nil {
		return failure[[]models.EntrepreneurSummary]("list entrepreneurs", err)
	}
	list, err := repo.List(ctx)
	if err != nil {
		return failure[[]models.EntrepreneurSummary]("list entrepreneurs", err)
	}
	return ok(list, "")
}

// GetEntrepreneur returns the full record for id.
func (s *Service) GetEntrepreneur(ctx context.Context, id int64) (res Result[*models.Entrepreneur]) {
	defer recoverInto(&res, "get entrepreneur")
	repo, err := s.entrepreneurs(ctx)
	if err != nil {
		return failure[*models.Entrepreneur]("get entrepreneur", err)
	}
	e, err := repo.GetByID(ctx, id)
	if err != nil {
		return failure[*models.Entrepreneur]("get entrepreneur", err)
	}
	if e == nil {
		return fail[*models.Entrepreneur](ReasonNotFound, fmt.Sprintf("entrepreneur %d not found", id))
	}
	return ok(e, "")
}

// AddEntrepreneur inserts a record and returns its id.
func (s *Service) AddEntrepreneur(ctx context.Context, data *models.Entrepreneur) (res Result[int64]) {
	defer recoverInto(&res, "add entrepreneur")
	repo, err := s.entrepreneurs(ctx)
	if err != nil {
		return failure[int64]("add entrepreneur", err)
	}
	id, err := repo.Create(ctx, data)
	if err != nil {
		return failure[int64]("add entrepreneur", err)
	}
	return ok(id, "")
}

// UpdateEntrepreneur replaces every field of the record.
func (s *Service) UpdateEntrepreneur(ctx context.Context, id int64, data *models.Entrepreneur) (res Result[bool]) {
	defer recoverInto(&res, "update entrepreneur")
	repo, err := s.entrepreneurs(ctx)
	if err != nil {
		return failure[bool]("update entrepreneur", err)
	}
	if err := repo.Update(ctx, id, data); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail[bool](ReasonNotFound, fmt.Sprintf("entrepreneur %d not found", id))
		}
		return failure[bool]("update entrepreneur", err)
	}
	return ok(true, "")
}

// DeleteEntrepreneur removes the record. A missing id still succeeds.
func (s *Service) DeleteEntrepreneur(ctx context.Context, id int64) (res Result[bool]) {
	defer recoverInto(&res, "delete entrepreneur")
	repo, err := s.entrepreneurs(ctx)
	if err != nil {
		return failure[bool]("delete entrepreneur", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		return failure[bool]("delete entrepreneur", err)
	}
	return ok(true, "")
}

// GetUserSettings returns the settings view of a user.
func (s *Service) GetUserSettings(ctx context.Context, userID int64) (res Result[*models.UserSettings]) {
	defer recoverInto(&res, "get user settings")
	repo, err := s.users(ctx)
	if err != nil {
		return failure[*models.UserSettings]("get user settings", err)
	}
	settings, err := repo.GetSettings(ctx, userID)
	if err != nil {
		return failure[*models.UserSettings]("get user settings", err)
	}
	if settings == nil {
		return fail[*models.UserSettings](ReasonNotFound, fmt.Sprintf("user %d not found", userID))
	}
	return ok(settings, "")
}

// UpdateUserProfile applies the fields present in p. An update with no
// fields is a successful no-op. A blank name or email is rejected as invalid.
func (s *Service) UpdateUserProfile(ctx context.Context, userID int64, p models.ProfileUpdate) (res Result[bool]) {
	defer recoverInto(&res, "update user profile")
	if err := p.Validate(); err != nil {
		return fail[bool](ReasonInvalid, err.Error())
	}
	repo, err := s.users(ctx)
	if err != nil {
		return failure[bool]("update user profile", err)
	}
	if err := repo.UpdateProfile(ctx, userID, p); err != nil {
		return failure[bool]("update user profile", err)
	}
	return ok(true, "")
}

// UpdateUserPassword checks currentPassword before storing newPassword.
// A wrong current password leaves the stored credential untouched.
func (s *Service) UpdateUserPassword(ctx context.Context, userID int64, currentPassword, newPassword string) (res Result[bool]) {
	defer recoverInto(&res, "update user password")
	repo, err := s.users(ctx)
	if err != nil {
		return failure[bool]("update user password", err)
	}
	u, err := repo.GetByID(ctx, userID)
	if err != nil {
		return failureMsg[bool]("update user password", err, msgPasswordFailed)
	}
	if u == nil || s.hasher.Compare(u.Password, []byte(currentPassword)) != nil {
		return fail[bool](ReasonCredentialMismatch, msgWrongPassword)
	}
	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return failureMsg[bool]("update user password", err, msgPasswordFailed)
	}
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return failureMsg[bool]("update user password", err, msgPasswordFailed)
	}
	return ok(true, msgPasswordUpdated)
}

// GetDashboardStats returns the headline figures across all years.
func (s *Service) GetDashboardStats(ctx context.Context) (res Result[*models.DashboardStats]) {
	defer recoverInto(&res, "dashboard stats")
	repo, err := s.entrepreneurs(ctx)
	if err != nil {
		return failure[*models.DashboardStats]("dashboard stats", err)
	}
	stats, err := repo.Stats(ctx)
	if err != nil {
		return failure[*models.DashboardStats]("dashboard stats", err)
	}
	return ok(stats, "")
}

// GetRecentActivities returns the ten newest activities, newest first.
func (s *Service) GetRecentActivities(ctx context.Context) (res Result[[]models.ActivityView]) {
	defer recoverInto(&res, "recent activities")
	h, err := s.store.Ensure(ctx)
	if err != nil {
		return failure[[]models.ActivityView]("recent activities", err)
	}
	rows, err := repository.NewActivityRepository(h).Recent(ctx, recentActivitiesLimit)
	if err != nil {
		return failure[[]models.ActivityView]("recent activities", err)
	}
	out := make([]models.ActivityView, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ActivityView{
			Description: r.Description,
			Time:        formatActivityTime(r.CreatedAt),
			User:        r.UserName.String,
		})
	}
	return ok(out, "")
}

// RecordActivity appends an entry to the activity log.
func (s *Service) RecordActivity(ctx context.Context, userID *int64, action, description string) (res Result[int64]) {
	defer recoverInto(&res, "record activity")
	h, err := s.store.Ensure(ctx)
	if err != nil {
		return failure[int64]("record activity", err)
	}
	id, err := repository.NewActivityRepository(h).Create(ctx, userID, action, description)
	if err != nil {
		return failure[int64]("record activity", err)
	}
	return ok(id, "")
}

// BuildReport computes every aggregate for one year.
func (s *Service) BuildReport(ctx context.Context, year int) (res Result[*models.ReportBundle]) {
	defer recoverInto(&res, "build report")
	bundle, err := s.reports.Build(ctx, year)
	if err != nil {
		return failure[*models.ReportBundle]("build report", err)
	}
	return ok(bundle, "")
}

// ExportCSV renders the year's records as CSV text.
func (s *Service) ExportCSV(ctx context.Context, year int) (res Result[string]) {
	defer recoverInto(&res, "export csv")
	body, err := s.reports.ExportCSV(ctx, year)
	if err != nil {
		return failure[string]("export csv", err)
	}
	return ok(body, "")
}

// EnsureAdmin creates an administrator account, or resets the password and
// role of the account that already has email. The value is the user id.
func (s *Service) EnsureAdmin(ctx context.Context, email, name, password string) (res Result[int64]) {
	defer recoverInto(&res, "ensure admin")
	if email == "" || password == "" {
		return fail[int64](ReasonInvalid, "email and password are required")
	}
	repo, err := s.users(ctx)
	if err != nil {
		return failure[int64]("ensure admin", err)
	}
	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return failure[int64]("ensure admin", err)
	}
	u, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return failure[int64]("ensure admin", err)
	}
	if u == nil {
		admin := models.NewAdmin(email, name, hash)
		created, err := repo.Create(ctx, &admin.User)
		if err != nil {
			return failure[int64]("ensure admin", err)
		}
		return ok(created.ID, "Administrator created")
	}
	if err := repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return failure[int64]("ensure admin", err)
	}
	if err := repo.UpdateRoleByEmail(ctx, email, models.RoleAdmin); err != nil {
		return failure[int64]("ensure admin", err)
	}
	return ok(u.ID, "Administrator updated")
}

// ListUsers returns one page of accounts ordered by id.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) (res Result[[]models.UserSummary]) {
	defer recoverInto(&res, "list users")
	repo, err := s.users(ctx)
	if err != nil {
		return failure[[]models.UserSummary]("list users", err)
	}
	users, err := repo.List(ctx, limit, offset)
	if err != nil {
		return failure[[]models.UserSummary]("list users", err)
	}
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, *users[i].Summary())
	}
	return ok(out, "")
}

// Reports exposes the underlying engine for renderers that need it directly.
func (s *Service) Reports() *report.Engine { return s.reports }

func (s *Service) entrepreneurs(ctx context.Context) (*repository.EntrepreneurRepository, error) {
	h, err := s.store.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return repository.NewEntrepreneurRepository(h), nil
}

func (s *Service) users(ctx context.Context) (*repository.UserRepository, error) {
	h, err := s.store.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return repository.NewUserRepository(h), nil
}

// failure logs err and classifies it into a Result.
func failure[T any](op string, err error) Result[T] {
	return failureMsg[T](op, err, msgRetry)
}

func failureMsg[T any](op string, err error, msg string) Result[T] {
	log.Printf("dal: %s: %v", op, err)
	if errors.Is(err, db.ErrUnavailable) {
		return fail[T](ReasonStoreUnavailable, msgUnavailable)
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fail[T](ReasonInvalid, se.Error())
	}
	return fail[T](ReasonStorage, msg)
}

func recoverInto[T any](res *Result[T], op string) {
	if r := recover(); r != nil {
		log.Printf("dal: %s: panic: %v", op, r)
		*res = fail[T](ReasonStorage, msgRetry)
	}
}

var activityTimeLayouts = []string{"2006-01-02 15:04:05.000", time.DateTime, time.RFC3339}

// formatActivityTime renders a stored UTC timestamp in local time.
// Unparseable values are shown as stored.
func formatActivityTime(raw string) string {
	for _, layout := range activityTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.Local().Format("02 Jan 2006, 15:04:05")
		}
	}
	return raw
}
