package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/ctxutil"
)

// Caller is the authenticated identity of a request. Role is the signup role
// and only gates coarse operations; class rights come from Membership.
type Caller struct {
	AccountID uuid.UUID
	Role      string
	Name      string
	SessionID uuid.UUID
}

func CallerFromRequest(rd *ctxutil.RequestData) Caller {
	if rd == nil {
		return Caller{}
	}
	return Caller{AccountID: rd.AccountID, Role: rd.Role, Name: rd.Name, SessionID: rd.SessionID}
}

func (c Caller) IsTeacher() bool { return c.Role == types.RoleTeacher }
func (c Caller) IsStudent() bool { return c.Role == types.RoleStudent }

// classAccess resolves the class and the caller's membership in it. Checks
// always run in the same order: class exists (404), then membership (403).
type classAccess struct {
	classes repos.ClassRepo
	members repos.MembershipRepo
}

func (a classAccess) class(dbc dbctx.Context, classID uuid.UUID) (*types.Class, error) {
	c, err := a.classes.GetByID(dbc, classID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if c == nil {
		return nil, apierr.NotFound("Class not found")
	}
	return c, nil
}

func (a classAccess) member(dbc dbctx.Context, classID uuid.UUID, caller Caller) (*types.Class, *types.Membership, error) {
	c, err := a.class(dbc, classID)
	if err != nil {
		return nil, nil, err
	}
	m, err := a.members.Get(dbc, c.ID, caller.AccountID)
	if err != nil {
		return nil, nil, apierr.Internal(err)
	}
	if m == nil {
		return nil, nil, apierr.Forbidden("Forbidden")
	}
	return c, m, nil
}

func (a classAccess) teacher(dbc dbctx.Context, classID uuid.UUID, caller Caller) (*types.Class, *types.Membership, error) {
	c, m, err := a.member(dbc, classID, caller)
	if err != nil {
		return nil, nil, err
	}
	if !m.IsTeacher() {
		return nil, nil, apierr.Forbidden("Forbidden")
	}
	return c, m, nil
}

func (a classAccess) student(dbc dbctx.Context, classID uuid.UUID, caller Caller) (*types.Class, *types.Membership, error) {
	c, m, err := a.member(dbc, classID, caller)
	if err != nil {
		return nil, nil, err
	}
	if !m.IsStudent() {
		return nil, nil, apierr.Forbidden("Forbidden")
	}
	return c, m, nil
}

// enrolledStudent checks that studentID holds a student membership in the
// class; anything else reads as not enrolled.
func (a classAccess) enrolledStudent(dbc dbctx.Context, classID, studentID uuid.UUID) (*types.Membership, error) {
	m, err := a.members.Get(dbc, classID, studentID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if m == nil || !m.IsStudent() {
		return nil, apierr.NotFound("Student not enrolled")
	}
	return m, nil
}
