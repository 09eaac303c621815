package service

import (
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/domain/store"
)

// Actor is the authenticated account a service call acts for.
type Actor struct {
	UserID uint
	Email  string
	Role   enum.Role
	Branch string
}

func (a Actor) gateActor() store.Actor {
	return store.Actor{UserID: a.UserID, Email: a.Email}
}
