package admin_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sensai-ai/hubkit/internal/admin"
	"github.com/sensai-ai/hubkit/internal/api/types"
	"github.com/sensai-ai/hubkit/internal/auth"
	"github.com/sensai-ai/hubkit/internal/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errServer = errors.New("server unavailable")

// fakeAPI serves one organization and counts calls per endpoint.
type fakeAPI struct {
	mu sync.Mutex

	org     types.Organization
	members []types.Member
	cohorts []types.Cohort
	courses []types.Course

	calls   map[string]int
	failOn  string
	invited [][]string
	removed [][]int64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		org: types.Organization{ID: 1, Name: "Sensai School", Slug: "sensai"},
		members: []types.Member{
			{ID: 10, Email: "owner@example.com", Role: types.RoleOwner},
			{ID: 11, Email: "admin@example.com", Role: "admin"},
			{ID: 12, Email: "a@example.com", Role: "member"},
			{ID: 13, Email: "b@example.com", Role: "member"},
		},
		cohorts: []types.Cohort{{ID: 1, Name: "Spring"}},
		courses: []types.Course{{ID: 1, Name: "Go 101"}},
		calls:   make(map[string]int),
	}
}

func (f *fakeAPI) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[name]++
	if f.failOn == name {
		return errServer
	}
	return nil
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) GetOrganization(_ context.Context, _ int64) (*types.Organization, error) {
	if err := f.record("org"); err != nil {
		return nil, err
	}
	org := f.org
	return &org, nil
}

func (f *fakeAPI) ListMembers(_ context.Context, _ int64) ([]types.Member, error) {
	if err := f.record("members"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Member(nil), f.members...), nil
}

func (f *fakeAPI) ListCohorts(_ context.Context, _ int64) ([]types.Cohort, error) {
	if err := f.record("cohorts"); err != nil {
		return nil, err
	}
	return f.cohorts, nil
}

func (f *fakeAPI) ListCourses(_ context.Context, _ int64) ([]types.Course, error) {
	if err := f.record("courses"); err != nil {
		return nil, err
	}
	return f.courses, nil
}

func (f *fakeAPI) InviteMembers(_ context.Context, _ int64, emails []string) error {
	if err := f.record("invite"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.invited = append(f.invited, emails)
	for i, email := range emails {
		f.members = append(f.members, types.Member{ID: int64(100 + i), Email: email, Role: "member"})
	}
	return nil
}

func (f *fakeAPI) RemoveMembers(_ context.Context, _ int64, userIDs []int64) error {
	if err := f.record("remove"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removed = append(f.removed, userIDs)
	kept := f.members[:0:0]
	for _, m := range f.members {
		drop := false
		for _, id := range userIDs {
			if m.ID == id {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, m)
		}
	}
	f.members = kept
	return nil
}

// The viewer is the admin with id 11.
func viewerContext(t *testing.T) context.Context {
	t.Helper()
	return auth.WithUser(t.Context(), auth.User{ID: 11, Email: "admin@example.com"})
}

func loadedView(t *testing.T, fake *fakeAPI) (*admin.DashboardView, *notice.Recorder, context.Context) {
	t.Helper()

	recorder := &notice.Recorder{}
	view := admin.NewDashboardView(fake, recorder, zaptest.NewLogger(t))
	ctx := viewerContext(t)

	snap := view.Load(ctx, 1)
	require.NoError(t, snap.Err)
	require.NotNil(t, snap.Dashboard)

	return view, recorder, ctx
}

func TestLoadAggregatesAllResources(t *testing.T) {
	t.Parallel()

	fake := newFakeAPI()
	view, _, _ := loadedView(t, fake)

	snap := view.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, int64(1), snap.OrgID)
	assert.Equal(t, fake.org, snap.Dashboard.Organization)
	assert.Len(t, snap.Dashboard.Members, 4)
	assert.Equal(t, fake.cohorts, snap.Dashboard.Cohorts)
	assert.Equal(t, fake.courses, snap.Dashboard.Courses)

	for _, name := range []string{"org", "members", "cohorts", "courses"} {
		assert.Equal(t, 1, fake.count(name), name)
	}
}

func TestLoadIsAllOrNothing(t *testing.T) {
	t.Parallel()

	for _, failing := range []string{"org", "members", "cohorts", "courses"} {
		t.Run(failing, func(t *testing.T) {
			t.Parallel()

			fake := newFakeAPI()
			fake.failOn = failing

			view := admin.NewDashboardView(fake, notice.Discard{}, zaptest.NewLogger(t))
			snap := view.Load(viewerContext(t), 1)

			require.ErrorIs(t, snap.Err, errServer)
			assert.Nil(t, snap.Dashboard, "no partial composite may be exposed")
			assert.False(t, snap.Loading)
		})
	}
}

func TestRefreshKeepsOtherCollections(t *testing.T) {
	t.Parallel()

	fake := newFakeAPI()
	view, _, ctx := loadedView(t, fake)
	before := view.Snapshot().Dashboard

	fake.mu.Lock()
	fake.cohorts = []types.Cohort{{ID: 1, Name: "Spring"}, {ID: 2, Name: "Summer"}}
	fake.mu.Unlock()

	require.NoError(t, view.RefreshCohorts(ctx))

	after := view.Snapshot().Dashboard
	assert.Len(t, after.Cohorts, 2)
	assert.Equal(t, before.Members, after.Members)
	assert.Equal(t, before.Courses, after.Courses)
	assert.Len(t, before.Cohorts, 1, "earlier snapshot is unchanged")

	assert.Equal(t, 1, fake.count("org"))
	assert.Equal(t, 1, fake.count("members"))
	assert.Equal(t, 2, fake.count("cohorts"))

	require.NoError(t, view.RefreshCourses(ctx))
	assert.Equal(t, 2, fake.count("courses"))
}

func TestInvite(t *testing.T) {
	t.Parallel()

	fake := newFakeAPI()
	view, recorder, ctx := loadedView(t, fake)

	emails, err := view.Invite(ctx, "New@Example.com, other@example.com", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"new@example.com", "other@example.com"}, emails)
	assert.Equal(t, [][]string{emails}, fake.invited)

	// Only members are refetched
	assert.Equal(t, 2, fake.count("members"))
	assert.Equal(t, 1, fake.count("cohorts"))
	assert.Len(t, view.Snapshot().Dashboard.Members, 6)
	assert.Equal(t, notice.KindInfo, recorder.Notices()[0].Kind)

	_, err = view.Invite(ctx, "  ")
	require.ErrorIs(t, err, admin.ErrNoEmails)
	assert.Equal(t, 1, fake.count("invite"))
}

func TestSelectionExcludesOwnerAndSelf(t *testing.T) {
	t.Parallel()

	fake := newFakeAPI()
	view, _, ctx := loadedView(t, fake)

	selectable := view.Selectable(ctx)
	require.Len(t, selectable, 2)
	assert.Equal(t, int64(12), selectable[0].ID)
	assert.Equal(t, int64(13), selectable[1].ID)

	require.ErrorIs(t, view.Toggle(ctx, 10), admin.ErrNotSelectable)
	require.ErrorIs(t, view.Toggle(ctx, 11), admin.ErrNotSelectable)
	require.ErrorIs(t, view.Toggle(ctx, 999), admin.ErrNotSelectable)

	require.NoError(t, view.SelectAll(ctx))
	assert.Equal(t, []int64{12, 13}, view.Snapshot().Selected)

	// Select-all again clears
	require.NoError(t, view.SelectAll(ctx))
	assert.Empty(t, view.Snapshot().Selected)

	require.NoError(t, view.Toggle(ctx, 13))
	assert.Equal(t, []int64{13}, view.Snapshot().Selected)
	require.NoError(t, view.Toggle(ctx, 13))
	assert.Empty(t, view.Snapshot().Selected)
}

func TestRemovalNeedsConfirmation(t *testing.T) {
	t.Parallel()

	fake := newFakeAPI()
	view, _, ctx := loadedView(t, fake)

	require.ErrorIs(t, view.ConfirmRemoval(ctx), admin.ErrNoPendingRemoval)

	_, err := view.RequestRemoval(ctx)
	require.ErrorIs(t, err, admin.ErrNothingSelected)

	_, err = view.RequestRemoval(ctx, 10)
	require.ErrorIs(t, err, admin.ErrNotSelectable)

	require.NoError(t, view.SelectAll(ctx))
	pending, err := view.RequestRemoval(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{12, 13}, pending)
	assert.Equal(t, 0, fake.count("remove"), "nothing is sent before confirmation")

	view.CancelRemoval()
	assert.Empty(t, view.Snapshot().Pending)
	assert.Equal(t, []int64{12, 13}, view.Snapshot().Selected)

	_, err = view.RequestRemoval(ctx)
	require.NoError(t, err)
	require.NoError(t, view.ConfirmRemoval(ctx))

	assert.Equal(t, [][]int64{{12, 13}}, fake.removed)
	snap := view.Snapshot()
	assert.Empty(t, snap.Selected)
	assert.Empty(t, snap.Pending)
	assert.Len(t, snap.Dashboard.Members, 2)
	assert.Equal(t, 2, fake.count("members"))
	assert.Equal(t, 1, fake.count("courses"))
}

func TestSingleRemovalFailure(t *testing.T) {
	t.Parallel()

	fake := newFakeAPI()
	fake.failOn = "remove"
	view, recorder, ctx := loadedView(t, fake)

	_, err := view.RequestRemoval(ctx, 12)
	require.NoError(t, err)

	require.ErrorIs(t, view.ConfirmRemoval(ctx), errServer)
	assert.Empty(t, view.Snapshot().Pending)
	assert.Len(t, view.Snapshot().Dashboard.Members, 4)
	assert.Equal(t, 1, fake.count("members"))
	require.Len(t, recorder.Notices(), 1)
	assert.Equal(t, notice.KindError, recorder.Notices()[0].Kind)
}

func TestActionsBeforeLoad(t *testing.T) {
	t.Parallel()

	view := admin.NewDashboardView(newFakeAPI(), notice.Discard{}, zaptest.NewLogger(t))
	ctx := viewerContext(t)

	require.ErrorIs(t, view.RefreshMembers(ctx), admin.ErrNotLoaded)
	require.ErrorIs(t, view.Toggle(ctx, 12), admin.ErrNotLoaded)
	_, err := view.Invite(ctx, "a@example.com")
	require.ErrorIs(t, err, admin.ErrNotLoaded)
	assert.Nil(t, view.Selectable(ctx))
}
