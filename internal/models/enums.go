package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleCoach Role = "coach"
)

var roleLabels = map[Role]string{
	RoleUser:  "Fitness Enthusiast",
	RoleCoach: "Fitness Coach",
}

// Roles is the closed set of accepted roles, in display order.
func Roles() []Role {
	return []Role{RoleUser, RoleCoach}
}

func (r Role) IsValid() bool {
	_, ok := roleLabels[r]
	return ok
}

func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

type Source string

// SourceNone is stored when the visitor did not say how they found us.
const SourceNone Source = ""

const (
	SourceHomepage         Source = "homepage"
	SourceX                Source = "x"
	SourceOtherSocialMedia Source = "other_social_media"
	SourceFriendReferral   Source = "friend_referral"
	SourceOther            Source = "other"
)

var sourceLabels = map[Source]string{
	SourceHomepage:         "Homepage",
	SourceX:                "X (Twitter)",
	SourceOtherSocialMedia: "Other Social Media",
	SourceFriendReferral:   "Friend Referral",
	SourceOther:            "Other",
}

func Sources() []Source {
	return []Source{SourceHomepage, SourceX, SourceOtherSocialMedia, SourceFriendReferral, SourceOther}
}

// IsValid accepts SourceNone as well as the named sources.
func (s Source) IsValid() bool {
	if s == SourceNone {
		return true
	}
	_, ok := sourceLabels[s]
	return ok
}

func (s Source) Label() string {
	if label, ok := sourceLabels[s]; ok {
		return label
	}
	return string(s)
}

func ParseSource(raw string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown source %q", raw)
	}
	return s, nil
}
