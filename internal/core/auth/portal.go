package auth

// 角色是封闭集合，入口处统一解析，后续不再做字符串比较分支
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleOwner  Role = "owner"
)

// ParseRole 历史数据里 "admin" 与 "owner" 同义
func ParseRole(s string) (Role, bool) {
	switch s {
	case "user":
		return RoleUser, true
	case "vendor":
		return RoleVendor, true
	case "owner", "admin":
		return RoleOwner, true
	}
	return "", false
}

type Portal string

const (
	PortalOwner   Portal = "owner"
	PortalVendor  Portal = "vendor"
	PortalGeneral Portal = "general"
)

type Toast struct {
	Variant     string `json:"variant"` // info / warning / error
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Decision 门禁结果。四个附加字段互相独立，前端需分别应用。
type Decision struct {
	Allowed     bool   `json:"allowed"`
	Banner      string `json:"banner,omitempty"`
	Toast       *Toast `json:"toast,omitempty"`
	ForceLogout bool   `json:"force_logout,omitempty"`
	Redirect    string `json:"redirect,omitempty"`
	Requires2FA bool   `json:"requires_2fa,omitempty"` // 登录流程按配置补充
}

// PortalAccess 集中式门禁查表，不要在各组件里重新推导
func PortalAccess(role Role, portal Portal) Decision {
	switch portal {
	case PortalGeneral:
		return Decision{Allowed: true}

	case PortalOwner:
		if role == RoleOwner {
			return Decision{Allowed: true}
		}
		return Decision{
			Allowed: false,
			Toast: &Toast{
				Variant:     "error",
				Title:       "无权访问",
				Description: "该账号没有运营后台权限",
			},
			Redirect: "/",
		}

	case PortalVendor:
		switch role {
		case RoleVendor:
			return Decision{Allowed: true}
		case RoleOwner:
			// 运营可进商家后台排查问题，顶部提示身份
			return Decision{
				Allowed: true,
				Banner:  "当前以运营身份访问商家后台",
			}
		default:
			return Decision{
				Allowed: false,
				Banner:  "你还不是商家，请先提交开店申请",
				Toast: &Toast{
					Variant:     "warning",
					Title:       "暂无商家权限",
					Description: "提交开店申请后再来",
				},
				Redirect: "/",
			}
		}
	}

	// 未知门户一律拒绝并强制登出，避免带着脏会话重定向打转
	return Decision{
		Allowed:     false,
		ForceLogout: true,
		Redirect:    "/",
	}
}
