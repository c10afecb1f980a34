package authorization

import (
	"context"
	_ "embed"
	"strings"

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
	ObjectKPI     = "kpi"
	ObjectOrgUnit = "org_unit"
	ObjectUpload  = "upload"
	ObjectReport  = "report"
	ObjectAPIKey  = "api_key"
	ObjectAudit   = "audit_log"
)

const (
	ActionKPIView     = "kpi.view"
	ActionOrgUnitView = "org_unit.view"

	ActionUploadView   = "upload.view"
	ActionUploadCreate = "upload.create"

	ActionReportGenerate = "report.generate"

	ActionAPIKeyView   = "api_key.view"
	ActionAPIKeyCreate = "api_key.create"
	ActionAPIKeyRotate = "api_key.rotate"
	ActionAPIKeyRevoke = "api_key.revoke"

	ActionAuditView = "audit_log.view"
)

const (
	RoleAdmin   = "role:admin"
	RoleAnalyst = "role:analyst"
	RoleViewer  = "role:viewer"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
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
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, role string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	roleName, err := roleSubject(role)
	if err != nil {
		return err
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	if err := s.ensureGrouping(actor, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(actor, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Info("authorization denied",
			zap.String("actor", actor),
			zap.String("role", roleName),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func roleSubject(role string) (string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return "", ErrInvalidRole
	}
	if !strings.HasPrefix(role, "role:") {
		role = "role:" + role
	}
	switch role {
	case RoleAdmin, RoleAnalyst, RoleViewer:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}

// ensureGrouping binds actor to exactly one role, replacing a stale binding
// left by an earlier role.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		if _, err := s.enforcer.RemoveGroupingPolicy(params...); err != nil {
			return err
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
		// Viewer permissions (read-only)
		{RoleViewer, ObjectKPI, ActionKPIView},
		{RoleViewer, ObjectOrgUnit, ActionOrgUnitView},
		{RoleViewer, ObjectUpload, ActionUploadView},

		// Analyst permissions
		{RoleAnalyst, ObjectReport, ActionReportGenerate},

		// Admin permissions
		{RoleAdmin, ObjectUpload, ActionUploadCreate},
		{RoleAdmin, ObjectAPIKey, ActionAPIKeyView},
		{RoleAdmin, ObjectAPIKey, ActionAPIKeyCreate},
		{RoleAdmin, ObjectAPIKey, ActionAPIKeyRotate},
		{RoleAdmin, ObjectAPIKey, ActionAPIKeyRevoke},
		{RoleAdmin, ObjectAudit, ActionAuditView},
	}
	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}

	inheritance := [][]string{
		{RoleAnalyst, RoleViewer},
		{RoleAdmin, RoleAnalyst},
	}
	for _, rule := range inheritance {
		if _, err := enforcer.AddGroupingPolicy(rule); err != nil {
			return err
		}
	}
	return nil
}
