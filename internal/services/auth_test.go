package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/ctxutil"
)

func TestSignupAndLogin(t *testing.T) {
	e := newEnv(t)
	name := testutil.Unique("ada")

	_, err := e.auth.Signup(e.ctx, SignupInput{Name: name, Role: types.RoleTeacher})
	requireAPIError(t, err, apierr.CodeValidation, "Missing required fields")

	_, err = e.auth.Signup(e.ctx, SignupInput{Name: name, Password: "pw", Role: "admin"})
	requireAPIError(t, err, apierr.CodeValidation, "")

	res, err := e.auth.Signup(e.ctx, SignupInput{Name: " " + name + " ", Password: "pw", Role: types.RoleTeacher})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, name, res.Account.Name)
	require.NotEqual(t, "pw", res.Account.PasswordHash)

	_, err = e.auth.Signup(e.ctx, SignupInput{Name: name, Password: "other", Role: types.RoleStudent})
	requireAPIError(t, err, apierr.CodeUserExists, "User already exists")

	_, err = e.auth.Login(e.ctx, name, "")
	requireAPIError(t, err, apierr.CodeValidation, "Missing credentials")

	_, err = e.auth.Login(e.ctx, name, "wrong")
	requireAPIError(t, err, apierr.CodeInvalidCredentials, "Invalid credentials")

	_, err = e.auth.Login(e.ctx, testutil.Unique("nobody"), "pw")
	requireAPIError(t, err, apierr.CodeInvalidCredentials, "Invalid credentials")

	login, err := e.auth.Login(e.ctx, name, "pw")
	require.NoError(t, err)
	require.Equal(t, res.Account.ID, login.Account.ID)
}

func TestAuthenticateAndLogout(t *testing.T) {
	e := newEnv(t)
	res, err := e.auth.Signup(e.ctx, SignupInput{Name: testutil.Unique("bo"), Password: "pw", Role: types.RoleStudent})
	require.NoError(t, err)

	ctx, err := e.auth.Authenticate(e.ctx, res.Token)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	require.Equal(t, res.Account.ID, rd.AccountID)
	require.Equal(t, types.RoleStudent, rd.Role)
	require.NotEqual(t, uuid.Nil, rd.SessionID)

	_, err = e.auth.Authenticate(e.ctx, res.Token+"x")
	requireAPIError(t, err, apierr.CodeInvalidToken, "Invalid token")

	require.NoError(t, e.auth.Logout(ctx, CallerFromRequest(rd)))
	_, err = e.auth.Authenticate(e.ctx, res.Token)
	requireAPIError(t, err, apierr.CodeInvalidToken, "Invalid token")
}

func TestAuthenticateRejectsForeignSignatures(t *testing.T) {
	e := newEnv(t)
	res, err := e.auth.Signup(e.ctx, SignupInput{Name: testutil.Unique("cy"), Password: "pw", Role: types.RoleStudent})
	require.NoError(t, err)

	claims := JWTClaims{
		AccountID: res.Account.ID.String(),
		Role:      types.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-secret"))
	require.NoError(t, err)
	_, err = e.auth.Authenticate(e.ctx, forged)
	requireAPIError(t, err, apierr.CodeInvalidToken, "Invalid token")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = e.auth.Authenticate(e.ctx, none)
	requireAPIError(t, err, apierr.CodeInvalidToken, "Invalid token")
}

func TestPurgeExpiredSessions(t *testing.T) {
	e := newEnv(t)
	account := testutil.SeedAccount(t, e.ctx, e.db, "exp", types.RoleStudent)
	dbc := dbctx.New(e.ctx)
	require.NoError(t, e.sessions.Create(dbc, &types.Session{
		ID:        uuid.New(),
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}))
	live := &types.Session{ID: uuid.New(), AccountID: account.ID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, e.sessions.Create(dbc, live))

	n, err := e.auth.PurgeExpiredSessions(e.ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := e.sessions.GetByID(dbc, live.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}
