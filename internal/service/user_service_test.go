package service

import (
	"context"
	"testing"
	"time"

	"github.com/Mohanapriya2828/schoolapp-ado/config"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/domain"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/dto"
	"github.com/Mohanapriya2828/schoolapp-ado/pkg/credentials"
	pkgdto "github.com/Mohanapriya2828/schoolapp-ado/pkg/dto"
	"github.com/Mohanapriya2828/schoolapp-ado/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo mimics the store-side guarantees the postgres repository
// provides: email uniqueness across all rows and version-conditioned writes.
type fakeUserRepo struct {
	nextID int64
	users  map[int64]domain.User

	// beforeUpdate runs just before UpdateUserIfUnchanged applies, so tests
	// can interleave a concurrent writer.
	beforeUpdate func()
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]domain.User{}}
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) AddUser(ctx context.Context, data domain.User) (int64, error) {
	for _, u := range f.users {
		if u.Email == data.Email {
			return 0, errs.ErrEmailAlreadyUsed
		}
	}

	data.ID = f.nextID
	f.nextID++
	data.Version = 1
	now := time.Now().UnixMilli()
	data.CreatedAt = now
	data.UpdatedAt = now
	f.users[data.ID] = data

	return data.ID, nil
}

func (f *fakeUserRepo) UpdateUserIfUnchanged(ctx context.Context, data domain.User, expectedVersion int64) error {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
		f.beforeUpdate = nil
	}

	current, ok := f.users[data.ID]
	if !ok || current.DeletedAt != nil || current.Version != expectedVersion {
		return errs.ErrConflict
	}

	for _, u := range f.users {
		if u.ID != data.ID && u.Email == data.Email {
			return errs.ErrEmailAlreadyUsed
		}
	}

	data.CreatedAt = current.CreatedAt
	data.Version = expectedVersion + 1
	data.UpdatedAt = time.Now().UnixMilli()
	f.users[data.ID] = data

	return nil
}

func (f *fakeUserRepo) SoftDeleteUser(ctx context.Context, id int64) error {
	current, ok := f.users[id]
	if !ok || current.DeletedAt != nil {
		return errs.ErrNotFound
	}

	now := time.Now().UnixMilli()
	current.IsActive = false
	current.DeletedAt = &now
	current.UpdatedAt = now
	current.Version++
	f.users[id] = current

	return nil
}

func (f *fakeUserRepo) GetUsers(ctx context.Context, filter pkgdto.Filter) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if u.IsActive && u.DeletedAt == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CountUsers(ctx context.Context, filter pkgdto.Filter) (int64, error) {
	users, _ := f.GetUsers(ctx, filter)
	return int64(len(users)), nil
}

func testConfig() config.Config {
	return config.Config{
		JWTConfig: config.JWTConfig{
			Secret:        "test-secret",
			Issuer:        "schoolapp",
			Audience:      "schoolapp-clients",
			ExpiryMinutes: 30,
		},
	}
}

func newTestService(repo *fakeUserRepo, conf config.Config) UserService {
	return CreateNewService(repo, conf, nil)
}

func registerRequest(email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:        "Jane Doe",
		Dob:         "1990-04-12",
		Designation: "Lecturer",
		Department:  "Physics",
		Email:       email,
		Password:    "initial-password",
		Role:        "Teacher",
	}
}

func TestAddUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	resp, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.NotEmpty(t, resp.ExternalID)
	assert.True(t, resp.IsActive)
	assert.NotZero(t, resp.CreatedAt)
	assert.Nil(t, resp.DeletedAt)

	stored := repo.users[resp.ID]
	assert.NotEqual(t, "initial-password", stored.HashedPassword)
	assert.True(t, credentials.Verify("initial-password", stored.HashedPassword))
}

func TestAddUserDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	_, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)

	_, err = svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	assert.ErrorIs(t, err, errs.ErrEmailAlreadyUsed)
	assert.Len(t, repo.users, 1)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	created, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "jane@school.test", Password: "initial-password"})
	require.NoError(t, err)

	assert.Equal(t, created.ID, resp.UserID)
	assert.Equal(t, "Teacher", resp.Role)
	assert.Equal(t, "Jane Doe", resp.Name)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	_, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), dto.LoginRequest{Email: "jane@school.test", Password: "wrong"})
	_, unknownEmail := svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@school.test", Password: "initial-password"})

	assert.ErrorIs(t, wrongPassword, errs.ErrInvalidCredentialsEmail)
	assert.ErrorIs(t, unknownEmail, errs.ErrInvalidCredentialsEmail)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestLoginSoftDeletedUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	created, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "jane@school.test", Password: "initial-password"})
	assert.ErrorIs(t, err, errs.ErrInvalidCredentialsEmail)
}

func TestGetUserByIDInactiveVisibilityPolicy(t *testing.T) {
	repo := newFakeUserRepo()
	conf := testConfig()
	svc := newTestService(repo, conf)

	created, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))

	// Default policy hides soft-deleted records.
	_, err = svc.GetUserByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	conf.ShowInactiveUsers = true
	svcShowAll := newTestService(repo, conf)

	resp, err := svcShowAll.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.NotNil(t, resp.DeletedAt)
	assert.Equal(t, "jane@school.test", resp.Email)
}

func TestGetUsersExcludesSoftDeleted(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	first, err := svc.AddUser(context.Background(), registerRequest("first@school.test"))
	require.NoError(t, err)
	_, err = svc.AddUser(context.Background(), registerRequest("second@school.test"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), first.ID))

	resp, err := svc.GetUsers(context.Background(), pkgdto.Filter{})
	require.NoError(t, err)

	records, ok := resp.Records.([]dto.UserResponse)
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "second@school.test", records[0].Email)
	assert.Equal(t, int64(1), resp.Metadata.TotalCount)
}

func TestUpdateUserPartialMerge(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	created, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)

	newName := "Jane Smith"
	err = svc.UpdateUser(context.Background(), dto.UpdateUserRequest{ID: created.ID, Name: &newName})
	require.NoError(t, err)

	stored := repo.users[created.ID]
	assert.Equal(t, "Jane Smith", stored.Name)
	assert.Equal(t, "jane@school.test", stored.Email)
	assert.Equal(t, "Physics", stored.Department)
	assert.Equal(t, created.CreatedAt, stored.CreatedAt)
	assert.True(t, credentials.Verify("initial-password", stored.HashedPassword))
}

func TestUpdateUserRotatesCredential(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	created, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)

	err = svc.UpdateUser(context.Background(), dto.UpdateUserRequest{ID: created.ID, Password: "rotated-password"})
	require.NoError(t, err)

	stored := repo.users[created.ID]
	assert.False(t, credentials.Verify("initial-password", stored.HashedPassword))
	assert.True(t, credentials.Verify("rotated-password", stored.HashedPassword))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "jane@school.test", Password: "rotated-password"})
	assert.NoError(t, err)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	a, err := svc.AddUser(context.Background(), registerRequest("a@school.test"))
	require.NoError(t, err)
	_, err = svc.AddUser(context.Background(), registerRequest("b@school.test"))
	require.NoError(t, err)

	taken := "b@school.test"
	err = svc.UpdateUser(context.Background(), dto.UpdateUserRequest{ID: a.ID, Email: &taken})
	assert.ErrorIs(t, err, errs.ErrEmailAlreadyUsed)

	// A's record is unchanged.
	assert.Equal(t, "a@school.test", repo.users[a.ID].Email)
	assert.Equal(t, int64(1), repo.users[a.ID].Version)
}

func TestUpdateUserNotFound(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	name := "anyone"
	err := svc.UpdateUser(context.Background(), dto.UpdateUserRequest{ID: 99, Name: &name})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	created, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))

	err = svc.UpdateUser(context.Background(), dto.UpdateUserRequest{ID: created.ID, Name: &name})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdateUserConcurrentWriteConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	created, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)

	// A second writer lands between this update's read and its write.
	repo.beforeUpdate = func() {
		current := repo.users[created.ID]
		current.Name = "Concurrent Winner"
		current.Version++
		repo.users[created.ID] = current
	}

	loser := "Losing Update"
	err = svc.UpdateUser(context.Background(), dto.UpdateUserRequest{ID: created.ID, Name: &loser})
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "Concurrent Winner", repo.users[created.ID].Name)
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, testConfig())

	created, err := svc.AddUser(context.Background(), registerRequest("jane@school.test"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))

	stored := repo.users[created.ID]
	assert.False(t, stored.IsActive)
	require.NotNil(t, stored.DeletedAt)
	assert.Equal(t, "jane@school.test", stored.Email)
	assert.Equal(t, created.CreatedAt, stored.CreatedAt)

	// Soft deletion is terminal.
	err = svc.DeleteUser(context.Background(), created.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
