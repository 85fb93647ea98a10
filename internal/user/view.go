package user

import "github.com/ovaphlow/pitchfork/service-goods/internal/user/entity"

// MinimalView is returned by login, register and refresh.
type MinimalView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DetailView adds the effective roles.
type DetailView struct {
	ID    int64    `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

func NewMinimalView(u *entity.User) MinimalView {
	return MinimalView{ID: u.ID, Email: u.Email, Name: u.Name}
}

func NewDetailView(u *entity.User) DetailView {
	return DetailView{ID: u.ID, Email: u.Email, Name: u.Name, Roles: u.EffectiveRoles()}
}

func NewDetailViews(users []*entity.User) []DetailView {
	out := make([]DetailView, 0, len(users))
	for _, u := range users {
		out = append(out, NewDetailView(u))
	}
	return out
}
