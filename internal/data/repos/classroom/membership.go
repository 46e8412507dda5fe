package classroom

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type MembershipRepo interface {
	Create(dbc dbctx.Context, m *types.Membership) error
	// CreateIfAbsent inserts m unless (class, account) already has a row.
	// It returns the stored membership and whether this call created it.
	CreateIfAbsent(dbc dbctx.Context, m *types.Membership) (*types.Membership, bool, error)
	Get(dbc dbctx.Context, classID, accountID uuid.UUID) (*types.Membership, error)
	ListByClassAndRole(dbc dbctx.Context, classID uuid.UUID, role string) ([]*types.Membership, error)
	DeleteByClassID(dbc dbctx.Context, classID uuid.UUID) error
}

type membershipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return &membershipRepo{db: db, log: baseLog.With("repo", "MembershipRepo")}
}

func (r *membershipRepo) Create(dbc dbctx.Context, m *types.Membership) error {
	return dbc.DB(r.db).Create(m).Error
}

func (r *membershipRepo) CreateIfAbsent(dbc dbctx.Context, m *types.Membership) (*types.Membership, bool, error) {
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "class_id"}, {Name: "account_id"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0
	stored, err := r.Get(dbc, m.ClassID, m.AccountID)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (r *membershipRepo) Get(dbc dbctx.Context, classID, accountID uuid.UUID) (*types.Membership, error) {
	if classID == uuid.Nil || accountID == uuid.Nil {
		return nil, nil
	}
	var row types.Membership
	res := dbc.DB(r.db).
		Where("class_id = ? AND account_id = ?", classID, accountID).
		Limit(1).
		Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *membershipRepo) ListByClassAndRole(dbc dbctx.Context, classID uuid.UUID, role string) ([]*types.Membership, error) {
	var out []*types.Membership
	q := dbc.DB(r.db).Where("class_id = ?", classID)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *membershipRepo) DeleteByClassID(dbc dbctx.Context, classID uuid.UUID) error {
	return dbc.DB(r.db).Where("class_id = ?", classID).Delete(&types.Membership{}).Error
}
