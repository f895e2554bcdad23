package contextkeys

type contextKey string

const (
	UserIDKey      contextKey = "user_id"
	TenantIDKey    contextKey = "tenant_id"
	PermissionsKey contextKey = "permissions"
)
