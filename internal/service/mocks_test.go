package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/password"
	"github.com/prn-tf/recipebook/internal/repository"
)

// strongPassword satisfies the default password policy.
const strongPassword = "r3p[avn!f;1cFGKDS"

var errStorage = errors.New("storage offline")

func defaultPolicy() *password.Policy {
	return password.NewPolicy(config.PasswordPolicyConfig{
		Length:      8,
		Uppercase:   1,
		Numbers:     1,
		Special:     1,
		NonLetters:  1,
		EntropyBits: 20,
		Strength:    0.66,
	})
}

func page[T any](items []*T, opts repository.ListOptions) *repository.ListResult[T] {
	total := int64(len(items))
	start := opts.Offset
	if start > len(items) {
		start = len(items)
	}
	end := start + opts.Limit
	if end > len(items) {
		end = len(items)
	}
	return &repository.ListResult[T]{
		Items:  items[start:end],
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}
}

// =============================================================================
// Users
// =============================================================================

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	users     map[int64]*domain.User
	nextID    int64
	createErr error
	getErr    error
	updateErr error
	existsErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) add(u *domain.User) *domain.User {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return u
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	m.add(user)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64, scope repository.Scope) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok || (scope.Filtered() && !u.IsActive) {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string, scope repository.Scope) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email && (!scope.Filtered() || u.IsActive) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id int64) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, scope repository.Scope, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	var items []*domain.User
	for _, u := range m.users {
		if !scope.Filtered() || u.IsActive {
			items = append(items, u)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return page(items, opts), nil
}

// fakeHasher "hashes" by prefixing; it keeps tests fast.
type fakeHasher struct {
	dummyCalls int
	hashErr    error
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + pw, nil
}

func (h *fakeHasher) Compare(hash, pw string) error {
	if hash != "hashed:"+pw {
		return password.ErrMismatch
	}
	return nil
}

func (h *fakeHasher) CompareDummy(pw string) {
	h.dummyCalls++
}

// fakeSessions records created and destroyed tokens.
type fakeSessions struct {
	created   []int64
	destroyed []string
	err       error
}

func (f *fakeSessions) Create(ctx context.Context, userID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, userID)
	return "token-" + strings.Repeat("x", len(f.created)), nil
}

func (f *fakeSessions) Destroy(ctx context.Context, token string) error {
	if f.err != nil {
		return f.err
	}
	f.destroyed = append(f.destroyed, token)
	return nil
}

// recordingMetrics counts events by label.
type recordingMetrics struct {
	registrations map[string]int
	logins        map[string]int
	collisions    map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		registrations: map[string]int{},
		logins:        map[string]int{},
		collisions:    map[string]int{},
	}
}

func (r *recordingMetrics) Registration(result string) { r.registrations[result]++ }
func (r *recordingMetrics) Login(result string)        { r.logins[result]++ }
func (r *recordingMetrics) SlugCollision(entity string) {
	r.collisions[entity]++
}

// =============================================================================
// Recipes, tags and period types
// =============================================================================

// MockRecipeRepository is a mock implementation of repository.RecipeRepository.
type MockRecipeRepository struct {
	recipes   map[int64]*domain.Recipe
	tags      *MockRecipeTagRepository
	periods   *MockPeriodTypeRepository
	users     *MockUserRepository
	nextID    int64
	createErr error
	updateErr error
	lastTags  []int64
}

func NewMockRecipeRepository(tags *MockRecipeTagRepository, periods *MockPeriodTypeRepository, users *MockUserRepository) *MockRecipeRepository {
	return &MockRecipeRepository{
		recipes: make(map[int64]*domain.Recipe),
		tags:    tags,
		periods: periods,
		users:   users,
		nextID:  1,
	}
}

func (m *MockRecipeRepository) hydrate(r *domain.Recipe) *domain.Recipe {
	cp := *r
	cp.Tags = append([]*domain.RecipeTag{}, r.Tags...)
	if u, ok := m.users.users[r.AuthorID]; ok {
		cp.Author = u
	}
	cp.PeriodType = nil
	if r.PeriodTypeID != nil {
		if p, ok := m.periods.items[*r.PeriodTypeID]; ok {
			cp.PeriodType = p
		}
	}
	return &cp
}

func (m *MockRecipeRepository) setTags(r *domain.Recipe, ids []int64) {
	r.Tags = []*domain.RecipeTag{}
	for _, id := range ids {
		if t, ok := m.tags.items[id]; ok {
			r.Tags = append(r.Tags, t)
		}
	}
	m.lastTags = ids
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe, tagIDs []int64) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, r := range m.recipes {
		if r.Slug == recipe.Slug {
			return domain.ErrSlugTaken
		}
	}
	recipe.ID = m.nextID
	m.nextID++
	stored := *recipe
	m.setTags(&stored, tagIDs)
	m.recipes[recipe.ID] = &stored
	return nil
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id int64, scope repository.Scope) (*domain.Recipe, error) {
	r, ok := m.recipes[id]
	if !ok || (scope.Filtered() && !r.IsVisible) {
		return nil, domain.ErrRecipeNotFound
	}
	return m.hydrate(r), nil
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *domain.Recipe, tagIDs []int64) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	old, ok := m.recipes[recipe.ID]
	if !ok {
		return domain.ErrRecipeNotFound
	}
	stored := *recipe
	stored.Tags = old.Tags
	m.lastTags = nil
	if tagIDs != nil {
		m.setTags(&stored, tagIDs)
	}
	m.recipes[recipe.ID] = &stored
	return nil
}

func (m *MockRecipeRepository) SoftDelete(ctx context.Context, id int64) error {
	r, ok := m.recipes[id]
	if !ok {
		return domain.ErrRecipeNotFound
	}
	r.IsVisible = false
	return nil
}

func (m *MockRecipeRepository) List(ctx context.Context, scope repository.Scope, opts repository.ListOptions) (*repository.ListResult[domain.Recipe], error) {
	var items []*domain.Recipe
	for _, r := range m.recipes {
		if !scope.Filtered() || r.IsVisible {
			items = append(items, m.hydrate(r))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return page(items, opts), nil
}

func (m *MockRecipeRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	for _, r := range m.recipes {
		if r.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// MockRecipeTagRepository is a mock implementation of repository.RecipeTagRepository.
type MockRecipeTagRepository struct {
	items  map[int64]*domain.RecipeTag
	nextID int64
	err    error
}

func NewMockRecipeTagRepository() *MockRecipeTagRepository {
	return &MockRecipeTagRepository{items: make(map[int64]*domain.RecipeTag), nextID: 1}
}

func (m *MockRecipeTagRepository) Create(ctx context.Context, tag *domain.RecipeTag) error {
	if m.err != nil {
		return m.err
	}
	tag.ID = m.nextID
	m.nextID++
	cp := *tag
	m.items[tag.ID] = &cp
	return nil
}

func (m *MockRecipeTagRepository) GetByID(ctx context.Context, id int64) (*domain.RecipeTag, error) {
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.items[id]
	if !ok {
		return nil, domain.ErrRecipeTagNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockRecipeTagRepository) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := m.items[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (m *MockRecipeTagRepository) Update(ctx context.Context, tag *domain.RecipeTag) error {
	if _, ok := m.items[tag.ID]; !ok {
		return domain.ErrRecipeTagNotFound
	}
	cp := *tag
	m.items[tag.ID] = &cp
	return nil
}

func (m *MockRecipeTagRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return domain.ErrRecipeTagNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MockRecipeTagRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.RecipeTag], error) {
	var items []*domain.RecipeTag
	for _, t := range m.items {
		items = append(items, t)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return page(items, opts), nil
}

func (m *MockRecipeTagRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	for _, t := range m.items {
		if t.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// MockPeriodTypeRepository is a mock implementation of repository.PeriodTypeRepository.
type MockPeriodTypeRepository struct {
	items  map[int64]*domain.PeriodType
	nextID int64
}

func NewMockPeriodTypeRepository() *MockPeriodTypeRepository {
	return &MockPeriodTypeRepository{items: make(map[int64]*domain.PeriodType), nextID: 1}
}

func (m *MockPeriodTypeRepository) Create(ctx context.Context, pt *domain.PeriodType) error {
	pt.ID = m.nextID
	m.nextID++
	cp := *pt
	m.items[pt.ID] = &cp
	return nil
}

func (m *MockPeriodTypeRepository) GetByID(ctx context.Context, id int64) (*domain.PeriodType, error) {
	pt, ok := m.items[id]
	if !ok {
		return nil, domain.ErrPeriodTypeNotFound
	}
	cp := *pt
	return &cp, nil
}

func (m *MockPeriodTypeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, pt := range m.items {
		if strings.EqualFold(pt.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPeriodTypeRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	for _, pt := range m.items {
		if pt.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPeriodTypeRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return domain.ErrPeriodTypeNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MockPeriodTypeRepository) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(m.items))
	m.items = make(map[int64]*domain.PeriodType)
	return n, nil
}

func (m *MockPeriodTypeRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.PeriodType], error) {
	var items []*domain.PeriodType
	for _, pt := range m.items {
		items = append(items, pt)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return page(items, opts), nil
}

var (
	_ repository.UserRepository       = (*MockUserRepository)(nil)
	_ repository.RecipeRepository     = (*MockRecipeRepository)(nil)
	_ repository.RecipeTagRepository  = (*MockRecipeTagRepository)(nil)
	_ repository.PeriodTypeRepository = (*MockPeriodTypeRepository)(nil)
	_ password.Hasher                 = (*fakeHasher)(nil)
	_ SessionManager                  = (*fakeSessions)(nil)
	_ Metrics                         = (*recordingMetrics)(nil)
)
