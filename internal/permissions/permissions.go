package permissions

import (
	"net/http"

	"github.com/steemit/yatube/internal/models"
)

// Default denial messages
const (
	MessageNotAuthenticated = "Authentication credentials were not provided."
	MessageDenied           = "You do not have permission to perform this action."
	MessageNotAuthor        = "Editing or deleting other users' posts or comments is not allowed"
)

// Permission decides whether a request may proceed. HasPermission runs
// before the target object is loaded, HasObjectPermission after.
type Permission interface {
	HasPermission(method string, user *models.User) bool
	HasObjectPermission(method string, user *models.User, obj models.Authored) bool
}

// Messenger is implemented by permissions with a custom denial message
type Messenger interface {
	Message() string
}

// DeniedError reports a failed permission check
type DeniedError struct {
	// NotAuthenticated is set when the caller is anonymous; it renders as 401
	NotAuthenticated bool
	Message          string
}

func (e *DeniedError) Error() string {
	return e.Message
}

// Status returns the HTTP status for the denial
func (e *DeniedError) Status() int {
	if e.NotAuthenticated {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

// IsSafeMethod reports whether method is read-only
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Check runs the collection-level check of every permission in order
func Check(method string, user *models.User, perms ...Permission) error {
	for _, p := range perms {
		if !p.HasPermission(method, user) {
			return deny(p, user)
		}
	}
	return nil
}

// CheckObject runs the object-level check of every permission in order
func CheckObject(method string, user *models.User, obj models.Authored, perms ...Permission) error {
	for _, p := range perms {
		if !p.HasObjectPermission(method, user, obj) {
			return deny(p, user)
		}
	}
	return nil
}

func deny(p Permission, user *models.User) error {
	if user == nil {
		return &DeniedError{NotAuthenticated: true, Message: MessageNotAuthenticated}
	}
	msg := MessageDenied
	if m, ok := p.(Messenger); ok {
		msg = m.Message()
	}
	return &DeniedError{Message: msg}
}

// AllowAny allows every request
type AllowAny struct{}

func (AllowAny) HasPermission(string, *models.User) bool { return true }

func (AllowAny) HasObjectPermission(string, *models.User, models.Authored) bool { return true }

// IsAuthenticated allows only authenticated users
type IsAuthenticated struct{}

func (IsAuthenticated) HasPermission(_ string, user *models.User) bool {
	return user != nil
}

func (IsAuthenticated) HasObjectPermission(string, *models.User, models.Authored) bool {
	return true
}

// IsAuthorOrReadOnly lets anyone read, authenticated users create, and
// only an object's author modify or delete it.
type IsAuthorOrReadOnly struct{}

func (IsAuthorOrReadOnly) HasPermission(method string, user *models.User) bool {
	return IsSafeMethod(method) || user != nil
}

func (IsAuthorOrReadOnly) HasObjectPermission(method string, user *models.User, obj models.Authored) bool {
	if IsSafeMethod(method) {
		return true
	}
	return user != nil && obj.AuthorKey() == user.ID
}

func (IsAuthorOrReadOnly) Message() string {
	return MessageNotAuthor
}
