package good

import (
	"github.com/ovaphlow/pitchfork/service-goods/internal/good/entity"
	userentity "github.com/ovaphlow/pitchfork/service-goods/internal/user/entity"
)

// ReadView is the public projection used by list, create and update.
type ReadView struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Comment *string `json:"comment"`
	Count   int     `json:"count"`
}

// OwnerView is the owner summary embedded in DetailView.
type OwnerView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DetailView is returned by GET /api/goods/{id}.
type DetailView struct {
	ReadView
	Owner *OwnerView `json:"owner"`
}

func NewReadView(g *entity.Good) ReadView {
	return ReadView{ID: g.ID, Name: g.Name, Comment: g.Comment, Count: g.Count}
}

func NewReadViews(goods []*entity.Good) []ReadView {
	out := make([]ReadView, 0, len(goods))
	for _, g := range goods {
		out = append(out, NewReadView(g))
	}
	return out
}

// NewDetailView embeds owner when known.
func NewDetailView(g *entity.Good, owner *userentity.User) DetailView {
	v := DetailView{ReadView: NewReadView(g)}
	if owner != nil {
		v.Owner = &OwnerView{ID: owner.ID, Email: owner.Email, Name: owner.Name}
	}
	return v
}
