package authz

import (
	"testing"

	"github.com/coursewise/coursewise/pkg/api"
	"github.com/coursewise/coursewise/pkg/auth"
)

func TestDecide(t *testing.T) {
	owner := &auth.Identity{PrincipalID: "user_owner"}
	other := &auth.Identity{PrincipalID: "user_other"}
	course := &api.Course{ID: "course_1", UserID: "user_owner"}

	tests := []struct {
		name   string
		id     *auth.Identity
		course *api.Course
		want   Decision
	}{
		{name: "owner is authorized", id: owner, course: course, want: Authorized},
		{name: "non-owner is forbidden", id: other, course: course, want: Forbidden},
		{name: "missing course is not found for owner", id: owner, course: nil, want: NotFound},
		{name: "missing course is not found for non-owner", id: other, course: nil, want: NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.id, tt.course); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecidePanicsWithoutIdentity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Decide(nil, course) did not panic")
		}
	}()
	Decide(nil, &api.Course{ID: "course_1", UserID: "user_owner"})
}
