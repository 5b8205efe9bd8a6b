package service

import (
	"fmt"
	"strings"

	"github.com/blogapi/internal/db"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func required(errs *FieldErrors, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, fmt.Sprintf("The %s field is required.", humanize(field)))
		return false
	}
	return true
}

func email(errs *FieldErrors, field, value string) {
	if !required(errs, field, value) {
		return
	}
	if err := validate.Var(strings.TrimSpace(value), "email"); err != nil {
		errs.Add(field, fmt.Sprintf("The %s field must be a valid email address.", humanize(field)))
	}
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// PostInput represents fields accepted when creating or updating a post.
// An empty Slug means the caller did not supply one.
type PostInput struct {
	Title   string
	Slug    string
	Content string
	Tags    []string
	Status  string
}

// Validate checks the post payload without touching storage.
func (in PostInput) Validate() FieldErrors {
	var errs FieldErrors
	required(&errs, "title", in.Title)
	required(&errs, "content", in.Content)

	if len(in.Tags) == 0 {
		errs.Add("tags", "The tags field is required.")
	}
	for i, name := range in.Tags {
		if strings.TrimSpace(name) == "" {
			errs.Add(fmt.Sprintf("tags.%d", i), fmt.Sprintf("The tags.%d field must be a non-empty string.", i))
		}
	}

	if required(&errs, "status", in.Status) && !db.ValidPostStatus(strings.TrimSpace(in.Status)) {
		errs.Add("status", "The selected status is invalid.")
	}
	return errs
}

// RegisterInput is the payload of POST /register.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks registration fields; email uniqueness is checked by the service.
func (in RegisterInput) Validate() FieldErrors {
	var errs FieldErrors
	required(&errs, "name", in.Name)
	email(&errs, "email", in.Email)
	required(&errs, "password", in.Password)
	if required(&errs, "confirm_password", in.ConfirmPassword) && in.ConfirmPassword != in.Password {
		errs.Add("confirm_password", "The confirm password field must match password.")
	}
	return errs
}

// LoginInput is the payload of POST /login.
type LoginInput struct {
	Email    string
	Password string
}

// Validate checks login fields.
func (in LoginInput) Validate() FieldErrors {
	var errs FieldErrors
	email(&errs, "email", in.Email)
	required(&errs, "password", in.Password)
	return errs
}

// CommentInput is shared by comment create and update. Status is only read on update.
type CommentInput struct {
	PostID  uint
	Name    string
	Email   string
	Body    string
	ReplyTo *uint
	Status  string
}

// ValidateCreate checks a new comment.
func (in CommentInput) ValidateCreate() FieldErrors {
	var errs FieldErrors
	required(&errs, "name", in.Name)
	email(&errs, "email", in.Email)
	required(&errs, "comment", in.Body)
	if in.PostID == 0 {
		errs.Add("post_id", "The post id field is required.")
	}
	return errs
}

// ValidateUpdate checks a comment update, which also requires a status.
func (in CommentInput) ValidateUpdate() FieldErrors {
	errs := in.ValidateCreate()
	if required(&errs, "status", in.Status) && !db.ValidCommentStatus(strings.TrimSpace(in.Status)) {
		errs.Add("status", "The selected status is invalid.")
	}
	return errs
}

// SearchInput is the query of GET /post/search.
type SearchInput struct {
	Query string
}

// Validate requires a non-empty query.
func (in SearchInput) Validate() FieldErrors {
	var errs FieldErrors
	required(&errs, "query", in.Query)
	return errs
}
