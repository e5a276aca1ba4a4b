package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectCatalog   = "catalog"
	ObjectKeys      = "keys"
	ObjectAccounts  = "accounts"
	ObjectPurchases = "purchases"
	ObjectFriends   = "friends"
	ObjectSteam     = "steam"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionKeysAdd        = "keys.add"
	ActionAccountsList   = "accounts.list"
	ActionSetRole        = "accounts.set_role"
	ActionCreditBalance  = "accounts.credit_balance"
	ActionPurchase       = "purchases.create"
	ActionFriendsAdd     = "friends.add"
	ActionSteamImport    = "steam.import"
	ActionSteamConfigure = "steam.configure"
)

type Service interface {
	// Authorize checks whether the account's role may perform the action on
	// the object.
	Authorize(ctx context.Context, accountID, role, object, action string) error
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, accountID, role, object, action string) error {
	_ = ctx

	id, err := snowflake.ParseString(strings.TrimSpace(accountID))
	if err != nil || id == 0 {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := "user:" + id.String()
	roleName := "role:" + strings.ToLower(strings.TrimSpace(role))

	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps the subject mapped to exactly its current role so a
// role change takes effect on the next request.
func (s *ServiceImpl) ensureGrouping(subject, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{"role:customer", ObjectCatalog, ActionView},
		{"role:customer", ObjectPurchases, ActionPurchase},
		{"role:customer", ObjectPurchases, ActionView},
		{"role:customer", ObjectFriends, ActionFriendsAdd},
		{"role:customer", ObjectFriends, ActionView},
		{"role:customer", ObjectSteam, ActionSteamImport},
		{"role:customer", ObjectSteam, ActionSteamConfigure},
		{"role:customer", ObjectSteam, ActionView},

		{"role:admin", ObjectCatalog, ActionView},
		{"role:admin", ObjectCatalog, ActionCreate},
		{"role:admin", ObjectCatalog, ActionUpdate},
		{"role:admin", ObjectCatalog, ActionDelete},
		{"role:admin", ObjectKeys, ActionKeysAdd},
		{"role:admin", ObjectKeys, ActionView},
		{"role:admin", ObjectAccounts, ActionAccountsList},
		{"role:admin", ObjectAccounts, ActionSetRole},
		{"role:admin", ObjectAccounts, ActionCreditBalance},
		{"role:admin", ObjectPurchases, ActionPurchase},
		{"role:admin", ObjectPurchases, ActionView},
		{"role:admin", ObjectFriends, ActionFriendsAdd},
		{"role:admin", ObjectFriends, ActionView},
		{"role:admin", ObjectSteam, ActionSteamImport},
		{"role:admin", ObjectSteam, ActionSteamConfigure},
		{"role:admin", ObjectSteam, ActionView},
	}

	for _, policy := range policies {
		if len(policy) < 3 {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
