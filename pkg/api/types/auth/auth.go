package auth

import (
	"time"

	"github.com/opst/vettracker/pkg/domain"
)

// Session is the response of logins.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      string    `json:"role"`
	UserId    int       `json:"userId"`
	Name      string    `json:"name"`

	// Redirect is the path of the home of the role.
	Redirect string `json:"redirect,omitempty"`
}

type Me struct {
	Role   string `json:"role"`
	UserId int    `json:"userId"`
	Name   string `json:"name"`
}

func ComposeMe(p domain.Principal) Me {
	return Me{Role: string(p.Role), UserId: p.UserId, Name: p.Name}
}

// Message is a response without data.
type Message struct {
	Message string `json:"message"`
}
