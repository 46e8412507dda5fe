package auth

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
)

func TestSessionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.New(ctx).WithTx(tx)
	repo := NewSessionRepo(db, testutil.Logger(t))

	acct := testutil.SeedAccount(t, ctx, tx, "sess", types.RoleStudent)
	live := &types.Session{AccountID: acct.ID, ExpiresAt: time.Now().Add(time.Hour)}
	stale := &types.Session{AccountID: acct.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	for _, s := range []*types.Session{live, stale} {
		if err := repo.Create(dbc, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.GetByID(dbc, live.ID)
	if err != nil || got == nil || got.AccountID != acct.ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got.Expired(time.Now()) {
		t.Fatalf("live session reported expired")
	}

	n, err := repo.DeleteExpired(dbc, time.Now())
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpired: n=%d err=%v", n, err)
	}
	if got, _ := repo.GetByID(dbc, stale.ID); got != nil {
		t.Fatalf("expected stale session removed")
	}

	if err := repo.DeleteByID(dbc, live.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if got, _ := repo.GetByID(dbc, live.ID); got != nil {
		t.Fatalf("expected session removed")
	}
}
