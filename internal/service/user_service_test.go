package service

import (
	"context"
	"testing"

	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/model"
	"Orbit_Social/internal/permission"
	"Orbit_Social/internal/pkg"
	"Orbit_Social/internal/repository/mysql"
	redisrepo "Orbit_Social/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	prev := redisrepo.Client
	redisrepo.Client = client
	t.Cleanup(func() {
		_ = client.Close()
		redisrepo.Client = prev
	})
}

func newUserService(t *testing.T) (*UserService, *gorm.DB) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewUserService(
		mysql.NewUserRepository(db),
		&redisrepo.UserRepository{},
		NewEmailService(pkg.SMTPConfig{}),
	)
	return svc, db
}

// seedCode plants a confirmed verification code the way a successful send
// would: pending first, then promoted.
func seedCode(t *testing.T, scope, email, code string) {
	t.Helper()
	er := &redisrepo.EmailRepository{}
	require.NoError(t, er.SetPending(scope, email, code))
	require.NoError(t, er.Promote(scope, email))
}

func registerUser(t *testing.T, svc *UserService, name string) *model.User {
	t.Helper()
	email := name + "@example.com"
	seedCode(t, ScopeRegister, email, "123456")
	user, err := svc.Register(context.Background(), name, email, "hunter22", "123456")
	require.NoError(t, err)
	return user
}

func TestUserService_Register(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	user := registerUser(t, svc, "alice")
	require.NotZero(t, user.ID)
	// stored hashed
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter22")))

	// the code burns on use
	seedCode(t, ScopeRegister, "bob@example.com", "654321")
	_, err := svc.Register(ctx, "bob", "bob@example.com", "pw", "000000")
	require.ErrorIs(t, err, ErrVerificationFailed)

	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	require.Equal(t, int64(1), n)
}

func TestUserService_RegisterUniqueness(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	registerUser(t, svc, "alice")

	seedCode(t, ScopeRegister, "other@example.com", "123456")
	_, err := svc.Register(ctx, "alice", "other@example.com", "pw", "123456")
	require.ErrorIs(t, err, ErrUsernameTaken)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	seedCode(t, ScopeRegister, "alice@example.com", "123456")
	_, err = svc.Register(ctx, "alice2", "alice@example.com", "pw", "123456")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_LoginAndSession(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "alice")

	token, user, err := svc.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)
	require.Equal(t, alice.ID, user.ID)

	// the access token is pinned in redis
	rUser := &redisrepo.UserRepository{}
	pinned, err := rUser.GetUserToken(alice.ID)
	require.NoError(t, err)
	require.Equal(t, token.AccessToken, pinned)

	// login by email works too
	_, _, err = svc.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.Logout(alice.ID))
	_, err = rUser.GetUserToken(alice.ID)
	require.Error(t, err)
}

func TestUserService_Refresh(t *testing.T) {
	svc, _ := newUserService(t)
	alice := registerUser(t, svc, "alice")

	token, _, err := svc.Login(context.Background(), "alice", "hunter22")
	require.NoError(t, err)

	fresh, err := svc.Refresh(token.RefreshToken)
	require.NoError(t, err)
	claims, err := pkg.ParseAccess(fresh.AccessToken)
	require.NoError(t, err)
	require.Equal(t, alice.ID, claims.UserID)

	_, err = svc.Refresh("not-a-token")
	require.Error(t, err)
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "alice")
	_, _, err := svc.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, alice.ID, "wrong", "newpw")
	require.ErrorIs(t, err, ErrOldPasswordWrong)

	require.NoError(t, svc.ChangePassword(ctx, alice.ID, "hunter22", "newpw"))

	// the session is dropped
	_, err = (&redisrepo.UserRepository{}).GetUserToken(alice.ID)
	require.Error(t, err)

	_, _, err = svc.Login(ctx, "alice", "newpw")
	require.NoError(t, err)
}

func TestUserService_ResetPassword(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	registerUser(t, svc, "alice")

	seedCode(t, ScopeReset, "alice@example.com", "777777")
	err := svc.ResetPassword(ctx, "alice@example.com", "000000", "newpw")
	require.ErrorIs(t, err, ErrVerificationFailed)

	require.NoError(t, svc.ResetPassword(ctx, "alice@example.com", "777777", "newpw"))
	_, _, err = svc.Login(ctx, "alice", "newpw")
	require.NoError(t, err)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "alice")
	registerUser(t, svc, "bob")

	taken := "bob"
	_, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: &taken})
	require.ErrorIs(t, err, ErrUsernameTaken)

	bio := "gopher"
	private := true
	updated, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{Bio: &bio, IsPrivate: &private})
	require.NoError(t, err)
	require.Equal(t, "gopher", updated.Bio)
	require.True(t, updated.IsPrivate)

	got, err := svc.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "gopher", got.Bio)
}

func TestUserService_DeleteAccountCascades(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "alice")
	bob := registerUser(t, svc, "bob")

	// connect them, seat alice in a community, then delete alice
	follows := NewFollowService(mysql.NewFollowRepository(db), mysql.NewUserRepository(db))
	_, err := follows.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, follows.AcceptFollowRequest(ctx, alice.ID, bob.ID))

	communities := NewCommunityService(
		mysql.NewCommunityRepository(db),
		mysql.NewCommunityMemberRepository(db),
		mysql.NewUserRepository(db),
		mysql.NewStatsRepository(db),
		permission.Default(),
	)
	comm, err := communities.CreateCommunity(ctx, bob.ID, "gophers", "", model.PrivacyPublic)
	require.NoError(t, err)
	require.NoError(t, communities.JoinCommunity(ctx, comm.ID, alice.ID))

	require.NoError(t, svc.DeleteAccount(ctx, alice.ID))

	_, err = svc.GetUser(ctx, alice.ID)
	require.ErrorIs(t, err, mysql.ErrUserNotFound)

	var n int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&n).Error)
	require.Zero(t, n)

	// bob's own membership survives, alice's is gone
	members, err := communities.ListMembers(ctx, comm.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, bob.ID, members[0].UserID)

	err = svc.DeleteAccount(ctx, alice.ID)
	require.ErrorIs(t, err, mysql.ErrUserNotFound)
}
