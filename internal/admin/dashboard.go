// Package admin holds the organization admin dashboard view model.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/sensai-ai/hubkit/internal/notice"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

var ErrNotLoaded = errors.New("dashboard is not loaded")

// API is the part of the backend the dashboard uses.
type API interface {
	GetOrganization(ctx context.Context, orgID int64) (*types.Organization, error)
	ListMembers(ctx context.Context, orgID int64) ([]types.Member, error)
	ListCohorts(ctx context.Context, orgID int64) ([]types.Cohort, error)
	ListCourses(ctx context.Context, orgID int64) ([]types.Course, error)
	InviteMembers(ctx context.Context, orgID int64, emails []string) error
	RemoveMembers(ctx context.Context, orgID int64, userIDs []int64) error
}

// Dashboard is the composite of the four organization resources.
type Dashboard struct {
	Organization types.Organization
	Members      []types.Member
	Cohorts      []types.Cohort
	Courses      []types.Course
}

// Snapshot is the tri-state view of the dashboard.
type Snapshot struct {
	OrgID     int64
	Dashboard *Dashboard
	Loading   bool
	Err       error
	Selected  []int64
	Pending   []int64
}

// part names a sub-collection that can be refreshed on its own.
type part int

const (
	partMembers part = iota
	partCohorts
	partCourses
	partCount
)

// DashboardView aggregates an organization, its members, cohorts and courses.
// It exposes a composite only when all four loaded; a failure of any of them
// fails the whole load.
type DashboardView struct {
	api       API
	notifier  notice.Notifier
	logger    *zap.Logger
	selection *Selection

	orgID     int64
	dashboard *Dashboard
	err       error
	loading   bool
	loadTag   uint64
	partTags  [partCount]uint64
	mu        sync.Mutex
}

// NewDashboardView creates a DashboardView.
func NewDashboardView(backend API, notifier notice.Notifier, logger *zap.Logger) *DashboardView {
	return &DashboardView{
		api:       backend,
		notifier:  notifier,
		logger:    logger.Named("admin_dashboard"),
		selection: NewSelection(),
	}
}

// Load fetches all four resources of the organization in parallel.
func (v *DashboardView) Load(ctx context.Context, orgID int64) Snapshot {
	v.mu.Lock()
	if v.orgID != orgID {
		v.dashboard = nil
		v.selection.Clear()
	}
	v.orgID = orgID
	v.loadTag++
	tag := v.loadTag
	v.loading = true
	v.err = nil
	v.mu.Unlock()

	var (
		org     *types.Organization
		members []types.Member
		cohorts []types.Cohort
		courses []types.Course
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		org, err = v.api.GetOrganization(ctx, orgID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		members, err = v.api.ListMembers(ctx, orgID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		cohorts, err = v.api.ListCohorts(ctx, orgID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		courses, err = v.api.ListCourses(ctx, orgID)
		return err
	})
	err := p.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loadTag != tag || v.orgID != orgID {
		v.logger.Debug("Discarding stale dashboard load", zap.Int64("orgID", orgID))
		return v.snapshotLocked()
	}

	v.loading = false

	if err != nil {
		v.logger.Error("Failed to load dashboard", zap.Int64("orgID", orgID), zap.Error(err))
		v.dashboard = nil
		v.err = fmt.Errorf("load organization %d: %w", orgID, err)
		return v.snapshotLocked()
	}

	v.dashboard = &Dashboard{
		Organization: *org,
		Members:      members,
		Cohorts:      cohorts,
		Courses:      courses,
	}
	v.selection.Prune(members, selfID(ctx))

	return v.snapshotLocked()
}

// Snapshot returns the current state.
func (v *DashboardView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// RefreshMembers reloads only the member list.
func (v *DashboardView) RefreshMembers(ctx context.Context) error {
	return refreshPart(ctx, v, partMembers, v.api.ListMembers, func(d *Dashboard, members []types.Member) {
		d.Members = members
		v.selection.Prune(members, selfID(ctx))
	})
}

// RefreshCohorts reloads only the cohort list.
func (v *DashboardView) RefreshCohorts(ctx context.Context) error {
	return refreshPart(ctx, v, partCohorts, v.api.ListCohorts, func(d *Dashboard, cohorts []types.Cohort) {
		d.Cohorts = cohorts
	})
}

// RefreshCourses reloads only the course list.
func (v *DashboardView) RefreshCourses(ctx context.Context) error {
	return refreshPart(ctx, v, partCourses, v.api.ListCourses, func(d *Dashboard, courses []types.Course) {
		d.Courses = courses
	})
}

// refreshPart reloads one sub-collection and swaps it into a copy of the
// dashboard. The other sub-collections are kept as they are.
func refreshPart[T any](
	ctx context.Context, v *DashboardView, which part,
	load func(context.Context, int64) (T, error), set func(*Dashboard, T),
) error {
	v.mu.Lock()
	if v.dashboard == nil {
		v.mu.Unlock()
		return ErrNotLoaded
	}
	orgID := v.orgID
	loadTag := v.loadTag
	v.partTags[which]++
	tag := v.partTags[which]
	v.mu.Unlock()

	data, err := load(ctx, orgID)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.orgID != orgID || v.loadTag != loadTag || v.partTags[which] != tag || v.dashboard == nil {
		v.logger.Debug("Discarding stale refresh", zap.Int64("orgID", orgID), zap.Int("part", int(which)))
		return nil
	}

	if err != nil {
		v.logger.Error("Failed to refresh", zap.Int64("orgID", orgID), zap.Int("part", int(which)), zap.Error(err))
		return fmt.Errorf("refresh organization %d: %w", orgID, err)
	}

	next := *v.dashboard
	set(&next, data)
	v.dashboard = &next

	return nil
}

// Invite adds members by e-mail and then reloads the member list.
func (v *DashboardView) Invite(ctx context.Context, inputs ...string) ([]string, error) {
	emails, err := NormalizeEmails(inputs...)
	if err != nil {
		return nil, err
	}

	orgID, err := v.loadedOrg()
	if err != nil {
		return nil, err
	}

	if err := v.api.InviteMembers(ctx, orgID, emails); err != nil {
		v.logger.Error("Failed to invite members", zap.Int64("orgID", orgID), zap.Error(err))
		v.notifier.Notify(notice.Notice{Kind: notice.KindError, Message: "Failed to invite members"})
		return nil, fmt.Errorf("invite to organization %d: %w", orgID, err)
	}

	v.notifier.Notify(notice.Notice{Kind: notice.KindInfo, Message: fmt.Sprintf("Invited %d member(s)", len(emails))})

	return emails, v.RefreshMembers(ctx)
}

// Selectable returns the members the viewer may select.
func (v *DashboardView) Selectable(ctx context.Context) []types.Member {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dashboard == nil {
		return nil
	}
	return Selectable(v.dashboard.Members, selfID(ctx))
}

// Toggle flips the selection of one member.
func (v *DashboardView) Toggle(ctx context.Context, memberID int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dashboard == nil {
		return ErrNotLoaded
	}
	return v.selection.Toggle(v.dashboard.Members, selfID(ctx), memberID)
}

// SelectAll selects every selectable member, or clears when all are selected.
func (v *DashboardView) SelectAll(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dashboard == nil {
		return ErrNotLoaded
	}
	v.selection.SelectAll(v.dashboard.Members, selfID(ctx))
	return nil
}

// RequestRemoval stages removal of the given members, or of the selection
// when none are given. Nothing is sent until ConfirmRemoval.
func (v *DashboardView) RequestRemoval(ctx context.Context, ids ...int64) ([]int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dashboard == nil {
		return nil, ErrNotLoaded
	}
	return v.selection.Request(v.dashboard.Members, selfID(ctx), ids...)
}

// CancelRemoval drops the staged removal.
func (v *DashboardView) CancelRemoval() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection.Cancel()
}

// ConfirmRemoval sends the staged removal. On success the selection is
// cleared and the member list is reloaded.
func (v *DashboardView) ConfirmRemoval(ctx context.Context) error {
	v.mu.Lock()
	if v.dashboard == nil {
		v.mu.Unlock()
		return ErrNotLoaded
	}
	pending := v.selection.Pending()
	orgID := v.orgID
	v.mu.Unlock()

	if len(pending) == 0 {
		return ErrNoPendingRemoval
	}

	if err := v.api.RemoveMembers(ctx, orgID, pending); err != nil {
		v.logger.Error("Failed to remove members", zap.Int64("orgID", orgID), zap.Int64s("userIDs", pending), zap.Error(err))
		v.notifier.Notify(notice.Notice{Kind: notice.KindError, Message: "Failed to remove members"})

		v.mu.Lock()
		v.selection.Cancel()
		v.mu.Unlock()

		return fmt.Errorf("remove members from organization %d: %w", orgID, err)
	}

	v.mu.Lock()
	v.selection.Clear()
	v.mu.Unlock()

	return v.RefreshMembers(ctx)
}

func (v *DashboardView) loadedOrg() (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dashboard == nil {
		return 0, ErrNotLoaded
	}
	return v.orgID, nil
}

func (v *DashboardView) snapshotLocked() Snapshot {
	return Snapshot{
		OrgID:     v.orgID,
		Dashboard: v.dashboard,
		Loading:   v.loading,
		Err:       v.err,
		Selected:  v.selection.IDs(),
		Pending:   v.selection.Pending(),
	}
}

func selfID(ctx context.Context) int64 {
	user, _ := auth.FromContext(ctx)
	return user.ID
}
