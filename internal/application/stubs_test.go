package application

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/domain/repository"
	"github.com/echobloom/echobloom-backend/internal/infrastructure/postgres"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// genStub returns canned JSON behavior for the LLM interface.
type genStub struct {
	fn func(ctx context.Context, prompt string, out any) error
}

func (g *genStub) GenerateJSON(ctx context.Context, prompt string, out any) error {
	return g.fn(ctx, prompt, out)
}

// failingGen always errors, forcing the deterministic fallback path.
func failingGen() *genStub {
	return &genStub{fn: func(context.Context, string, any) error {
		return context.DeadlineExceeded
	}}
}

type echoRepoStub struct {
	echoes  []*entity.Echo
	byStage map[string]int
	created []*entity.Echo
}

var _ repository.EchoRepository = (*echoRepoStub)(nil)

func (r *echoRepoStub) Create(_ context.Context, e *entity.Echo) error {
	r.created = append(r.created, e)
	return nil
}

func (r *echoRepoStub) GetByID(_ context.Context, id string) (*entity.Echo, error) {
	for _, e := range r.echoes {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *echoRepoStub) ListRecent(_ context.Context, _ string, limit int) ([]*entity.Echo, error) {
	if limit > len(r.echoes) {
		limit = len(r.echoes)
	}
	return r.echoes[:limit], nil
}

func (r *echoRepoStub) ListSince(_ context.Context, _ string, since time.Time) ([]*entity.Echo, error) {
	var out []*entity.Echo
	for _, e := range r.echoes {
		if !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *echoRepoStub) CountByStage(_ context.Context, _ string) (map[string]int, error) {
	if r.byStage == nil {
		return map[string]int{}, nil
	}
	return r.byStage, nil
}

func (r *echoRepoStub) UpdateAnalysis(_ context.Context, id string, moodScore float64, tags []string, response, stage string) error {
	for _, e := range r.echoes {
		if e.ID == id {
			e.MoodScore = moodScore
			e.EmotionTags = tags
			e.Response = response
			e.GrowthStage = stage
			e.AnalysisPending = false
			return nil
		}
	}
	return postgres.ErrNotFound
}

func (r *echoRepoStub) Latest(_ context.Context, _ string) (*entity.Echo, error) {
	if len(r.echoes) == 0 {
		return nil, postgres.ErrNotFound
	}
	return r.echoes[0], nil
}

type userRepoStub struct {
	users []*entity.User
}

var _ repository.UserRepository = (*userRepoStub)(nil)

func (r *userRepoStub) Create(_ context.Context, u *entity.User) error {
	r.users = append(r.users, u)
	return nil
}

func (r *userRepoStub) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *userRepoStub) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, postgres.ErrNotFound
}

type activityRepoStub struct {
	activities []*entity.Activity
	byKind     map[string]int
	created    []*entity.Activity
}

var _ repository.ActivityRepository = (*activityRepoStub)(nil)

func (r *activityRepoStub) Create(_ context.Context, a *entity.Activity) error {
	r.created = append(r.created, a)
	return nil
}

func (r *activityRepoStub) ListSince(_ context.Context, _ string, since time.Time) ([]*entity.Activity, error) {
	var out []*entity.Activity
	for _, a := range r.activities {
		if !a.CompletedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *activityRepoStub) CountByKind(_ context.Context, _ string) (map[string]int, error) {
	if r.byKind == nil {
		return map[string]int{}, nil
	}
	return r.byKind, nil
}

type profileRepoStub struct {
	profile *entity.Profile
	updated *entity.Profile
}

var _ repository.ProfileRepository = (*profileRepoStub)(nil)

func (r *profileRepoStub) Create(_ context.Context, p *entity.Profile) error {
	r.profile = p
	return nil
}

func (r *profileRepoStub) GetByUserID(_ context.Context, _ string) (*entity.Profile, error) {
	if r.profile == nil {
		return nil, postgres.ErrNotFound
	}
	return r.profile, nil
}

func (r *profileRepoStub) Update(_ context.Context, p *entity.Profile) error {
	r.updated = p
	return nil
}

func (r *profileRepoStub) UpdatePreferences(_ context.Context, _ string, prefs map[string]any) error {
	if r.profile != nil {
		r.profile.RitualPreferences = prefs
	}
	return nil
}

type fusionRepoStub struct {
	fusions []*entity.Fusion
}

var _ repository.FusionRepository = (*fusionRepoStub)(nil)

func (r *fusionRepoStub) Create(_ context.Context, f *entity.Fusion) error {
	r.fusions = append(r.fusions, f)
	return nil
}

func (r *fusionRepoStub) ListRecent(_ context.Context, _ string, limit int) ([]*entity.Fusion, error) {
	if limit > len(r.fusions) {
		limit = len(r.fusions)
	}
	return r.fusions[:limit], nil
}

type affirmationRepoStub struct {
	saved []*entity.Affirmation
}

var _ repository.AffirmationRepository = (*affirmationRepoStub)(nil)

func (r *affirmationRepoStub) Create(_ context.Context, a *entity.Affirmation) error {
	r.saved = append(r.saved, a)
	return nil
}

func (r *affirmationRepoStub) ListRecent(_ context.Context, _ string, limit int) ([]*entity.Affirmation, error) {
	if limit > len(r.saved) {
		limit = len(r.saved)
	}
	return r.saved[:limit], nil
}

// moodEchoes builds a newest-first echo list from scores, one echo per day.
func moodEchoes(scores ...float64) []*entity.Echo {
	now := time.Now().UTC()
	out := make([]*entity.Echo, len(scores))
	for i, s := range scores {
		out[i] = &entity.Echo{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			Content:   "entry",
			MoodScore: s,
			CreatedAt: now.AddDate(0, 0, -i),
		}
	}
	return out
}
