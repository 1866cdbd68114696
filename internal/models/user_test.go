package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleFromSelector(t *testing.T) {
	tests := []struct {
		name     string
		selector RoleSelector
		want     UserRole
		wantOK   bool
	}{
		{name: "teacher", selector: SelectorTeacher, want: RoleTeacher, wantOK: true},
		{name: "student", selector: SelectorStudent, want: RoleStudent, wantOK: true},
		{name: "administrator", selector: SelectorAdministrator, want: RoleAdministrator, wantOK: true},
		{name: "super admin", selector: SelectorSuperAdmin, want: RoleSuperAdmin, wantOK: true},
		{name: "zero", selector: 0},
		{name: "out of range", selector: 5},
		{name: "negative", selector: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RoleFromSelector(tt.selector)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstRole(t *testing.T) {
	user := &User{}
	_, ok := user.FirstRole()
	assert.False(t, ok)

	user.Roles = []Role{{Name: "Student"}, {Name: "Teacher"}}
	role, ok := user.FirstRole()
	assert.True(t, ok)
	assert.Equal(t, RoleStudent, role)
}
