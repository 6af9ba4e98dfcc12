package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"

	"github.com/gin-gonic/gin"
)

// 匿名 401 / 普通用户 403 / 管理员 200
func TestAdminUsersAccessMatrix(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	seedUser(t, db, "normal", "password123", models.RoleUser, true)
	seedUser(t, db, "boss", "password123", models.RoleAdmin, true)

	w := doJSON(t, r, http.MethodGet, "/api/admin/users", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("匿名访问 status=%d, want 401", w.Code)
	}

	userCookie := login(t, r, "normal@test.com", "password123")
	w = doJSON(t, r, http.MethodGet, "/api/admin/users", userCookie, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("普通用户访问 status=%d, want 403", w.Code)
	}

	adminCookie := login(t, r, "boss@test.com", "password123")
	w = doJSON(t, r, http.MethodGet, "/api/admin/users", adminCookie, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("管理员访问 status=%d body=%s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["total"] != float64(2) {
		t.Errorf("total = %v, want 2", body["total"])
	}
	// 响应不能泄漏密码哈希
	for _, item := range body["data"].([]interface{}) {
		if _, ok := item.(map[string]interface{})["passwordHash"]; ok {
			t.Fatal("用户列表不应包含密码哈希")
		}
	}
}

func TestAdminListUsersFilters(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	seedUser(t, db, "boss", "password123", models.RoleAdmin, true)
	seedUser(t, db, "henry", "password123", models.RoleUser, true)
	seedUser(t, db, "irene", "password123", models.RoleUser, false)
	cookie := login(t, r, "boss@test.com", "password123")

	cases := []struct {
		query string
		want  int
	}{
		{"role=admin", 1},
		{"role=user", 2},
		{"status=active", 2},
		{"status=disabled", 1},
		{"search=IREN", 1},
		{"search=nobody", 0},
	}
	for _, tc := range cases {
		w := doJSON(t, r, http.MethodGet, "/api/admin/users?"+tc.query, cookie, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", tc.query, w.Code, w.Body.String())
		}
		if body := decode(t, w); body["total"] != float64(tc.want) {
			t.Errorf("%s: total = %v, want %d", tc.query, body["total"], tc.want)
		}
	}
}

func TestAdminRoleChange(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	seedUser(t, db, "boss", "password123", models.RoleAdmin, true)
	target := seedUser(t, db, "jack", "password123", models.RoleUser, true)
	cookie := login(t, r, "boss@test.com", "password123")

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", target.ID), cookie, gin.H{"role": "admin"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var reloaded models.User
	db.First(&reloaded, target.ID)
	if reloaded.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", reloaded.Role)
	}

	// 非法角色
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", target.ID), cookie, gin.H{"role": "superuser"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("非法角色 status=%d, want 400", w.Code)
	}

	// 不存在的用户
	w = doJSON(t, r, http.MethodPatch, "/api/admin/users/9999/role", cookie, gin.H{"role": "user"})
	if w.Code != http.StatusNotFound {
		t.Errorf("不存在用户 status=%d, want 404", w.Code)
	}
}

// 管理员不能对自己做降权 / 禁用 / 删除，而且状态必须原样保留
func TestAdminSelfActionGuards(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	admin := seedUser(t, db, "boss", "password123", models.RoleAdmin, true)
	cookie := login(t, r, "boss@test.com", "password123")

	cases := []struct {
		name    string
		method  string
		path    string
		body    gin.H
		wantMsg string
	}{
		{"自我降权", http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", admin.ID),
			gin.H{"role": "user"}, "You cannot remove your own admin role."},
		{"自我禁用", http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/status", admin.ID),
			gin.H{"isActive": false}, "You cannot disable your own account."},
		{"自我删除", http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", admin.ID),
			nil, "You cannot delete your own account."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, tc.method, tc.path, cookie, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if msg := decode(t, w)["error"]; msg != tc.wantMsg {
				t.Errorf("error = %v, want %q", msg, tc.wantMsg)
			}

			// 账号必须原封不动
			var reloaded models.User
			if err := db.First(&reloaded, admin.ID).Error; err != nil {
				t.Fatalf("账号不应被删除: %v", err)
			}
			if reloaded.Role != models.RoleAdmin || !reloaded.IsActive {
				t.Errorf("账号状态被改动: role=%q isActive=%v", reloaded.Role, reloaded.IsActive)
			}
		})
	}

	// 改自己的角色为 admin（无变化）是允许的
	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", admin.ID), cookie, gin.H{"role": "admin"})
	if w.Code != http.StatusOK {
		t.Errorf("保持 admin 角色 status=%d, want 200", w.Code)
	}
}

func TestAdminStatusAndDelete(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	seedUser(t, db, "boss", "password123", models.RoleAdmin, true)
	target := seedUser(t, db, "kate", "password123", models.RoleUser, true)
	cookie := login(t, r, "boss@test.com", "password123")

	// 禁用别人
	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/status", target.ID), cookie, gin.H{"isActive": false})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var reloaded models.User
	db.First(&reloaded, target.ID)
	if reloaded.IsActive {
		t.Error("用户应已被禁用")
	}

	// isActive 缺失是 400
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/status", target.ID), cookie, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺失 isActive status=%d, want 400", w.Code)
	}

	// 删除别人
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", target.ID), cookie, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var count int64
	db.Model(&models.User{}).Where("id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Error("用户应已被删除")
	}

	// 重复删除是 404
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", target.ID), cookie, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("重复删除 status=%d, want 404", w.Code)
	}
}

func TestNotifications(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	seedUser(t, db, "boss", "password123", models.RoleAdmin, true)
	seedUser(t, db, "liam", "password123", models.RoleUser, true)
	adminCookie := login(t, r, "boss@test.com", "password123")
	userCookie := login(t, r, "liam@test.com", "password123")

	// 普通用户不能发公告
	w := doJSON(t, r, http.MethodPost, "/api/admin/notifications", userCookie, gin.H{
		"title": "x", "message": "y",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("普通用户发公告 status=%d, want 403", w.Code)
	}

	// 标题/内容必填（空白不算）
	w = doJSON(t, r, http.MethodPost, "/api/admin/notifications", adminCookie, gin.H{
		"title": "  ", "message": "y",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("空标题 status=%d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/admin/notifications", adminCookie, gin.H{
		"title": "Race weekend", "message": "Qualifying moved to Saturday",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("发公告 status=%d body=%s", w.Code, w.Body.String())
	}

	// 普通用户可以读公告
	w = doJSON(t, r, http.MethodGet, "/api/notifications", userCookie, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("读公告 status=%d body=%s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["total"] != float64(1) {
		t.Errorf("total = %v, want 1", body["total"])
	}

	// 匿名不能读
	w = doJSON(t, r, http.MethodGet, "/api/notifications", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("匿名读公告 status=%d, want 401", w.Code)
	}
}
