package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewup/crewup-api/internal/domain"
	"github.com/crewup/crewup-api/internal/repository"
)

// fakeStore is an in-memory implementation of the user, opportunity and
// request repositories. Decide performs the same compare-and-set under a
// lock that the postgres implementation performs in a transaction, so the
// race properties of the workflow can be exercised without a database.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*domain.UserProfile
	opps     map[string]*domain.Opportunity
	requests map[string]*domain.JoinRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*domain.UserProfile),
		opps:     make(map[string]*domain.Opportunity),
		requests: make(map[string]*domain.JoinRequest),
	}
}

func (f *fakeStore) Create(ctx context.Context, profile *domain.UserProfile, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[profile.UID] = profile
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, profile := range f.users {
		if profile.Email == email {
			copied := *profile
			return &copied, "", nil
		}
	}
	return nil, "", domain.ErrUserNotFound
}

func (f *fakeStore) UpdateProfile(ctx context.Context, profile *domain.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[profile.UID]; !ok {
		return domain.ErrUserNotFound
	}
	f.users[profile.UID] = profile
	return nil
}

func (f *fakeStore) createOpportunity(ctx context.Context, opp *domain.Opportunity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opps[opp.ID] = opp
	return nil
}

func (f *fakeStore) getOpportunity(ctx context.Context, id string) (*domain.Opportunity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	opp, ok := f.opps[id]
	if !ok {
		return nil, domain.ErrOpportunityNotFound
	}
	copied := *opp
	copied.TeamMemberIDs = append([]string{}, opp.TeamMemberIDs...)
	copied.TeamMembers = append([]domain.TeamMember{}, opp.TeamMembers...)
	return &copied, nil
}

func (f *fakeStore) listOpportunities(ctx context.Context, filter repository.OpportunityFilter) ([]*domain.OpportunitySummary, error) {
	return []*domain.OpportunitySummary{}, nil
}

func (f *fakeStore) deleteOpportunity(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.opps[id]; !ok {
		return domain.ErrOpportunityNotFound
	}
	delete(f.opps, id)
	return nil
}

func (f *fakeStore) removeMember(ctx context.Context, opportunityID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	opp, ok := f.opps[opportunityID]
	if !ok {
		return domain.ErrOpportunityNotFound
	}
	for i, id := range opp.TeamMemberIDs {
		if id == userID {
			opp.TeamMemberIDs = append(opp.TeamMemberIDs[:i], opp.TeamMemberIDs[i+1:]...)
			opp.TeamMembers = append(opp.TeamMembers[:i], opp.TeamMembers[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotMember
}

func (f *fakeStore) createRequest(ctx context.Context, req *domain.JoinRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Same uniqueness rule the partial index enforces in postgres
	for _, existing := range f.requests {
		if existing.OpportunityID == req.OpportunityID &&
			existing.RequesterID == req.RequesterID &&
			existing.Status == domain.StatusPending {
			return domain.ErrDuplicateRequest
		}
	}
	req.Status = domain.StatusPending
	req.CreatedAt = time.Now()
	f.requests[req.ID] = req
	return nil
}

func (f *fakeStore) getRequest(ctx context.Context, id string) (*domain.JoinRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (f *fakeStore) decide(ctx context.Context, requestID string, outcome domain.DecisionOutcome) (*domain.JoinRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[requestID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if req.Status != domain.StatusPending {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	req.DecidedAt = &now
	if outcome == domain.OutcomeAccept {
		req.Status = domain.StatusAccepted
		if opp, ok := f.opps[req.OpportunityID]; ok {
			opp.TeamMemberIDs = append(opp.TeamMemberIDs, req.RequesterID)
			opp.TeamMembers = append(opp.TeamMembers, domain.TeamMember{
				UserID:      req.RequesterID,
				DisplayName: req.RequesterName,
				PhotoURL:    req.RequesterPhotoURL,
				JoinedAt:    now,
			})
		}
	} else {
		req.Status = domain.StatusDeclined
	}

	copied := *req
	return &copied, nil
}

func (f *fakeStore) hasPending(ctx context.Context, opportunityID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if req.OpportunityID == opportunityID && req.RequesterID == userID && req.Status == domain.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) listPendingByOwner(ctx context.Context, ownerID string) ([]*domain.JoinRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []*domain.JoinRequest{}
	for _, req := range f.requests {
		if req.OwnerID == ownerID && req.Status == domain.StatusPending {
			copied := *req
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Adapters splitting fakeStore into the three repository interfaces

type fakeOppRepo struct{ *fakeStore }

func (f fakeOppRepo) Create(ctx context.Context, opp *domain.Opportunity) error {
	return f.createOpportunity(ctx, opp)
}
func (f fakeOppRepo) GetByID(ctx context.Context, id string) (*domain.Opportunity, error) {
	return f.getOpportunity(ctx, id)
}
func (f fakeOppRepo) List(ctx context.Context, filter repository.OpportunityFilter) ([]*domain.OpportunitySummary, error) {
	return f.listOpportunities(ctx, filter)
}
func (f fakeOppRepo) Delete(ctx context.Context, id string) error {
	return f.deleteOpportunity(ctx, id)
}
func (f fakeOppRepo) RemoveMember(ctx context.Context, opportunityID, userID string) error {
	return f.removeMember(ctx, opportunityID, userID)
}

type fakeRequestRepo struct{ *fakeStore }

func (f fakeRequestRepo) Create(ctx context.Context, req *domain.JoinRequest) error {
	return f.createRequest(ctx, req)
}
func (f fakeRequestRepo) GetByID(ctx context.Context, id string) (*domain.JoinRequest, error) {
	return f.getRequest(ctx, id)
}
func (f fakeRequestRepo) Decide(ctx context.Context, requestID string, outcome domain.DecisionOutcome) (*domain.JoinRequest, error) {
	return f.decide(ctx, requestID, outcome)
}
func (f fakeRequestRepo) HasPending(ctx context.Context, opportunityID, userID string) (bool, error) {
	return f.hasPending(ctx, opportunityID, userID)
}
func (f fakeRequestRepo) ListPendingByOwner(ctx context.Context, ownerID string) ([]*domain.JoinRequest, error) {
	return f.listPendingByOwner(ctx, ownerID)
}

func newTestService(t *testing.T) (*MembershipService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewMembershipService(fakeRequestRepo{store}, fakeOppRepo{store}, store, NewEventBus())
	return svc, store
}

func seedUser(t *testing.T, store *fakeStore, uid, name string, skills ...string) {
	t.Helper()
	err := store.Create(context.Background(), &domain.UserProfile{
		UID:         uid,
		Email:       uid + "@example.com",
		DisplayName: name,
		Skills:      skills,
	}, "")
	require.NoError(t, err)
}

func seedOpportunity(t *testing.T, store *fakeStore, id, ownerID, title string) {
	t.Helper()
	err := store.createOpportunity(context.Background(), &domain.Opportunity{
		ID:      id,
		Title:   title,
		OwnerID: ownerID,
	})
	require.NoError(t, err)
}

func TestMembershipService_InitialStatusIsNone(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedUser(t, store, "bob", "Bob")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

	state, err := svc.Status(ctx, "bob", "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, state)

	state, err = svc.Status(ctx, "owner-a", "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateOwner, state)
}

func TestMembershipService_RequestJoin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedUser(t, store, "bob", "Bob", "Go", "React")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

	req, err := svc.RequestJoin(ctx, "bob", "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, req.Status)
	assert.Equal(t, "o1", req.OpportunityID)
	assert.Equal(t, "owner-a", req.OwnerID)

	// The request carries a snapshot of the requester's profile
	assert.Equal(t, "Bob", req.RequesterName)
	assert.Equal(t, []string{"Go", "React"}, req.RequesterSkills)

	state, err := svc.Status(ctx, "bob", "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateRequested, state)

	pending, err := svc.ListPendingForOwner(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req.ID, pending[0].ID)
}

func TestMembershipService_RequestJoin_Duplicate(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedUser(t, store, "bob", "Bob")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

	_, err := svc.RequestJoin(ctx, "bob", "o1")
	require.NoError(t, err)

	_, err = svc.RequestJoin(ctx, "bob", "o1")
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)

	// State is unchanged and exactly one request exists
	state, err := svc.Status(ctx, "bob", "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateRequested, state)

	pending, err := svc.ListPendingForOwner(ctx, "owner-a")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestMembershipService_RequestJoin_OwnerAndMember(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedUser(t, store, "bob", "Bob")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

	// The owner has nothing to request
	_, err := svc.RequestJoin(ctx, "owner-a", "o1")
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)

	// An accepted member cannot request again
	req, err := svc.RequestJoin(ctx, "bob", "o1")
	require.NoError(t, err)
	_, err = svc.Decide(ctx, "owner-a", req.ID, domain.OutcomeAccept)
	require.NoError(t, err)

	_, err = svc.RequestJoin(ctx, "bob", "o1")
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
}

func TestMembershipService_Decide_Accept(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedUser(t, store, "bob", "Bob")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

	req, err := svc.RequestJoin(ctx, "bob", "o1")
	require.NoError(t, err)

	decided, err := svc.Decide(ctx, "owner-a", req.ID, domain.OutcomeAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, decided.Status)
	require.NotNil(t, decided.DecidedAt)

	state, err := svc.Status(ctx, "bob", "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateMember, state)

	opp, err := store.getOpportunity(ctx, "o1")
	require.NoError(t, err)
	assert.Contains(t, opp.TeamMemberIDs, "bob")

	// Retrying an already-applied decision surfaces InvalidState, membership unchanged
	_, err = svc.Decide(ctx, "owner-a", req.ID, domain.OutcomeAccept)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	opp, err = store.getOpportunity(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, opp.TeamMemberIDs)
}

func TestMembershipService_Decide_Decline(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedUser(t, store, "carol", "Carol")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

	req, err := svc.RequestJoin(ctx, "carol", "o1")
	require.NoError(t, err)

	decided, err := svc.Decide(ctx, "owner-a", req.ID, domain.OutcomeDecline)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, decided.Status)

	state, err := svc.Status(ctx, "carol", "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, state)

	opp, err := store.getOpportunity(ctx, "o1")
	require.NoError(t, err)
	assert.NotContains(t, opp.TeamMemberIDs, "carol")

	// A new request is allowed after a terminal decline
	again, err := svc.RequestJoin(ctx, "carol", "o1")
	require.NoError(t, err)
	assert.NotEqual(t, req.ID, again.ID)
	assert.Equal(t, domain.StatusPending, again.Status)
}

func TestMembershipService_Decide_NotOwner(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedUser(t, store, "bob", "Bob")
	seedUser(t, store, "mallory", "Mallory")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

	req, err := svc.RequestJoin(ctx, "bob", "o1")
	require.NoError(t, err)

	_, err = svc.Decide(ctx, "mallory", req.ID, domain.OutcomeAccept)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	// No state change
	state, err := svc.Status(ctx, "bob", "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateRequested, state)
}

func TestMembershipService_Decide_UnknownRequest(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

	_, err := svc.Decide(ctx, "owner-a", uuid.NewString(), domain.OutcomeAccept)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

// TestMembershipService_Decide_Race races an accept against a decline on the
// same request: exactly one must win and the final state must be consistent
// either way.
func TestMembershipService_Decide_Race(t *testing.T) {
	for i := 0; i < 50; i++ {
		svc, store := newTestService(t)
		ctx := context.Background()

		seedUser(t, store, "owner-a", "Owner A")
		seedUser(t, store, "bob", "Bob")
		seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

		req, err := svc.RequestJoin(ctx, "bob", "o1")
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		outcomes := []domain.DecisionOutcome{domain.OutcomeAccept, domain.OutcomeDecline}
		for n := 0; n < 2; n++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, errs[n] = svc.Decide(ctx, "owner-a", req.ID, outcomes[n])
			}(n)
		}
		wg.Wait()

		wins := 0
		for _, err := range errs {
			if err == nil {
				wins++
			} else {
				require.ErrorIs(t, err, domain.ErrInvalidState)
			}
		}
		require.Equal(t, 1, wins, "exactly one decision must commit")

		// The surviving state is one of the two consistent outcomes
		final, err := store.getRequest(ctx, req.ID)
		require.NoError(t, err)
		opp, err := store.getOpportunity(ctx, "o1")
		require.NoError(t, err)

		switch final.Status {
		case domain.StatusAccepted:
			assert.Contains(t, opp.TeamMemberIDs, "bob")
		case domain.StatusDeclined:
			assert.NotContains(t, opp.TeamMemberIDs, "bob")
		default:
			t.Fatalf("request left in non-terminal status %q", final.Status)
		}
	}
}

func TestMembershipService_RemoveMember(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedUser(t, store, "bob", "Bob")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

	req, err := svc.RequestJoin(ctx, "bob", "o1")
	require.NoError(t, err)
	_, err = svc.Decide(ctx, "owner-a", req.ID, domain.OutcomeAccept)
	require.NoError(t, err)

	// Only the owner removes, and never the owner themselves
	err = svc.RemoveMember(ctx, "bob", "o1", "bob")
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	err = svc.RemoveMember(ctx, "owner-a", "o1", "owner-a")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	err = svc.RemoveMember(ctx, "owner-a", "o1", "bob")
	require.NoError(t, err)

	state, err := svc.Status(ctx, "bob", "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, state)
}

func TestMembershipService_ListPendingOrder(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedUser(t, store, "bob", "Bob")
	seedUser(t, store, "carol", "Carol")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")
	seedOpportunity(t, store, "o2", "owner-a", "Hackathon")

	first, err := svc.RequestJoin(ctx, "bob", "o1")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := svc.RequestJoin(ctx, "carol", "o2")
	require.NoError(t, err)

	pending, err := svc.ListPendingForOwner(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, pending, 2)

	// Oldest first: a fair review order across all owned opportunities
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
}

func TestMembershipService_RequireMember(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedUser(t, store, "owner-a", "Owner A")
	seedUser(t, store, "bob", "Bob")
	seedUser(t, store, "carol", "Carol")
	seedOpportunity(t, store, "o1", "owner-a", "Eco Initiative")

	assert.NoError(t, svc.RequireMember(ctx, "owner-a", "o1"))
	assert.ErrorIs(t, svc.RequireMember(ctx, "carol", "o1"), domain.ErrNotMember)

	req, err := svc.RequestJoin(ctx, "bob", "o1")
	require.NoError(t, err)

	// A pending requester is not a member yet
	assert.ErrorIs(t, svc.RequireMember(ctx, "bob", "o1"), domain.ErrNotMember)

	_, err = svc.Decide(ctx, "owner-a", req.ID, domain.OutcomeAccept)
	require.NoError(t, err)
	assert.NoError(t, svc.RequireMember(ctx, "bob", "o1"))
}
