package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mmorpgboard/internal/config"
	"mmorpgboard/internal/database"
	"mmorpgboard/internal/models"
	"mmorpgboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// recordingNotifier captures notifications instead of sending email.
type recordingNotifier struct {
	mu       sync.Mutex
	codes    map[uint][]string
	replied  []*models.Reply
	accepted []*models.Reply
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{codes: map[uint][]string{}}
}

func (n *recordingNotifier) SendLoginCode(_ context.Context, user *models.User, code *models.OneTimeCode) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[user.ID] = append(n.codes[user.ID], code.Code)
}

func (n *recordingNotifier) NotifyPostOwnerOfReply(_ context.Context, reply *models.Reply) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replied = append(n.replied, reply)
}

func (n *recordingNotifier) NotifyReplierOfAcceptance(_ context.Context, reply *models.Reply) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accepted = append(n.accepted, reply)
}

func (n *recordingNotifier) lastCode(t *testing.T, userID uint) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	codes := n.codes[userID]
	require.NotEmpty(t, codes, "no code sent to user %d", userID)
	return codes[len(codes)-1]
}

// testEnv wires the services over an in-memory SQLite database with a
// controllable clock.
type testEnv struct {
	db       *gorm.DB
	clock    time.Time
	notifier *recordingNotifier
	users    repository.UserRepository
	codes    *CodeService
	auth     *AuthService
	posts    *PostService
	replies  *ReplyService
}

func newTestEnv(t *testing.T, policy ReplyPolicy) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	env := &testEnv{
		db:       db,
		clock:    time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		notifier: newRecordingNotifier(),
		users:    repository.NewUserRepository(db),
	}

	cfg := &config.Config{CodeLength: 5, CodeTTLSeconds: 120}
	env.codes = NewCodeService(repository.NewCodeRepository(db), cfg)
	env.codes.hashCost = bcrypt.MinCost
	env.codes.now = func() time.Time { return env.clock }

	postRepo := repository.NewPostRepository(db, nil)
	env.auth = NewAuthService(env.users, env.codes, env.notifier)
	env.posts = NewPostService(postRepo)
	env.replies = NewReplyService(repository.NewReplyRepository(db), postRepo, env.notifier, policy)
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

// verifiedUser registers and verifies a user.
func (e *testEnv) verifiedUser(t *testing.T, username string) *models.User {
	t.Helper()
	ctx := context.Background()
	u, err := e.auth.Register(ctx, RegisterInput{Username: username, Email: username + "@example.com"})
	require.NoError(t, err)
	u, err = e.auth.VerifyCode(ctx, u.ID, e.notifier.lastCode(t, u.ID))
	require.NoError(t, err)
	return u
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeNotFound), "expected NOT_FOUND, got %v", err)
}
