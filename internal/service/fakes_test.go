package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cinevibe/cinevibe-server/internal/domain"
	"github.com/cinevibe/cinevibe-server/internal/repository"
)

// In-memory stands-ins for the repository layer. They mirror the store's
// semantics closely enough for service-level tests: unique usernames,
// upsert keyed by (user, movie), and recompute-on-write aggregates.

type fakeUserStore struct {
	users  map[string]domain.User
	nextID int
	// reviews is shared with fakeReviewStore so Delete can cascade.
	reviews *fakeReviewStore
}

func newFakeUserStore(reviews *fakeReviewStore) *fakeUserStore {
	return &fakeUserStore{users: make(map[string]domain.User), reviews: reviews}
}

func (f *fakeUserStore) Create(_ context.Context, username, passwordHash string) (domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return domain.User{}, fmt.Errorf("%w: username taken", domain.ErrConflict)
		}
	}
	f.nextID++
	user := domain.User{
		ID:           fmt.Sprintf("user-%d", f.nextID),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	return user, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("%w: user", domain.ErrNotFound)
}

func (f *fakeUserStore) Delete(_ context.Context, id string) ([]string, error) {
	if _, ok := f.users[id]; !ok {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	delete(f.users, id)
	var refs []string
	if f.reviews != nil {
		for key, review := range f.reviews.byPair {
			if review.UserID == id {
				if review.MediaRef != nil {
					refs = append(refs, *review.MediaRef)
				}
				delete(f.reviews.byPair, key)
			}
		}
	}
	return refs, nil
}

type fakeMovieStore struct {
	movies  map[string]domain.Movie
	nextID  int
	reviews *fakeReviewStore
}

func newFakeMovieStore(reviews *fakeReviewStore) *fakeMovieStore {
	return &fakeMovieStore{movies: make(map[string]domain.Movie), reviews: reviews}
}

func (f *fakeMovieStore) Create(_ context.Context, params repository.MovieCreateParams) (domain.Movie, error) {
	f.nextID++
	movie := domain.Movie{
		ID:          fmt.Sprintf("movie-%d", f.nextID),
		Title:       params.Title,
		ReleaseYear: params.ReleaseYear,
		Genre:       params.Genre,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.movies[movie.ID] = movie
	return movie, nil
}

func (f *fakeMovieStore) GetByID(_ context.Context, id string) (domain.Movie, error) {
	movie, ok := f.movies[id]
	if !ok {
		return domain.Movie{}, fmt.Errorf("%w: movie", domain.ErrNotFound)
	}
	return movie, nil
}

func (f *fakeMovieStore) List(_ context.Context) ([]domain.Movie, error) {
	out := make([]domain.Movie, 0, len(f.movies))
	for _, m := range f.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakeMovieStore) Delete(_ context.Context, id string, cascade bool) ([]string, error) {
	if _, ok := f.movies[id]; !ok {
		return nil, fmt.Errorf("%w: movie", domain.ErrNotFound)
	}
	var refs []string
	if f.reviews != nil {
		var dependent []string
		for key, review := range f.reviews.byPair {
			if review.MovieID == id {
				dependent = append(dependent, key)
			}
		}
		if len(dependent) > 0 && !cascade {
			return nil, fmt.Errorf("%w: movie still has reviews", domain.ErrConflict)
		}
		for _, key := range dependent {
			if ref := f.reviews.byPair[key].MediaRef; ref != nil {
				refs = append(refs, *ref)
			}
			delete(f.reviews.byPair, key)
		}
	}
	delete(f.movies, id)
	return refs, nil
}

type fakeReviewStore struct {
	byPair map[string]domain.Review
	nextID int
	clock  time.Time
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{byPair: make(map[string]domain.Review), clock: time.Unix(1700000000, 0)}
}

func pairKey(userID, movieID string) string {
	return userID + "|" + movieID
}

func (f *fakeReviewStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeReviewStore) Upsert(_ context.Context, params repository.ReviewUpsertParams) (domain.Review, bool, error) {
	key := pairKey(params.UserID, params.MovieID)
	if existing, ok := f.byPair[key]; ok {
		existing.Rating = params.Rating
		existing.Title = params.Title
		existing.Body = params.Body
		existing.MediaRef = params.MediaRef
		existing.UpdatedAt = f.tick()
		f.byPair[key] = existing
		return existing, false, nil
	}
	f.nextID++
	now := f.tick()
	review := domain.Review{
		ID:        fmt.Sprintf("review-%d", f.nextID),
		UserID:    params.UserID,
		MovieID:   params.MovieID,
		Rating:    params.Rating,
		Title:     params.Title,
		Body:      params.Body,
		MediaRef:  params.MediaRef,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.byPair[key] = review
	return review, true, nil
}

func (f *fakeReviewStore) GetByID(_ context.Context, id string) (domain.Review, error) {
	for _, review := range f.byPair {
		if review.ID == id {
			return review, nil
		}
	}
	return domain.Review{}, fmt.Errorf("%w: review", domain.ErrNotFound)
}

func (f *fakeReviewStore) Delete(ctx context.Context, id string) (domain.Review, error) {
	review, err := f.GetByID(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	delete(f.byPair, pairKey(review.UserID, review.MovieID))
	return review, nil
}

func (f *fakeReviewStore) ListForMovie(_ context.Context, movieID string, limit int, _ *repository.ReviewCursor) (repository.ReviewListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	var items []domain.Review
	for _, review := range f.byPair {
		if review.MovieID == movieID {
			items = append(items, review)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if len(items) > limit {
		items = items[:limit]
	}
	return repository.ReviewListResult{Items: items}, nil
}

func (f *fakeReviewStore) Aggregate(_ context.Context, movieID string) (domain.RatingAggregate, error) {
	var sum, count int64
	for _, review := range f.byPair {
		if review.MovieID == movieID {
			sum += int64(review.Rating)
			count++
		}
	}
	if count == 0 {
		return domain.RatingAggregate{}, nil
	}
	return domain.RatingAggregate{Average: float32(sum) / float32(count), Count: count}, nil
}

type fakeMedia struct {
	blobs map[string]struct{}
}

func newFakeMedia(refs ...string) *fakeMedia {
	f := &fakeMedia{blobs: make(map[string]struct{})}
	for _, ref := range refs {
		f.blobs[ref] = struct{}{}
	}
	return f
}

func (f *fakeMedia) Exists(ref string) bool {
	_, ok := f.blobs[ref]
	return ok
}

func (f *fakeMedia) Delete(ref string) error {
	delete(f.blobs, ref)
	return nil
}
