package pubcms

import (
	"context"
	"errors"
	"fmt"

	"github.com/eringen/pubcms/content"
	"github.com/eringen/pubcms/slug"
)

// Default credentials written by Seed. Change the password after first login.
const (
	SeedEmail    = "admin@example.com"
	SeedPassword = "password123"
	SeedName     = "Admin User"
)

const welcomeContent = `---
title: Welcome
description: The first post of your new site.
tags: [welcome]
published: false
---

# Welcome

This draft was created by the seed command. Edit or delete it from the admin.
`

// SeedResult reports what Seed did.
type SeedResult struct {
	Admin   User
	Created bool
	Welcome *Post
}

// Seed creates the default admin account and a draft welcome post. When the
// admin already exists nothing is written.
func Seed(ctx context.Context, s *Store) (SeedResult, error) {
	existing, err := s.GetUserByEmail(ctx, SeedEmail)
	if err == nil {
		return SeedResult{Admin: existing}, nil
	}
	if !errors.Is(err, content.ErrNotFound) {
		return SeedResult{}, err
	}

	hash, err := HashPassword(SeedPassword)
	if err != nil {
		return SeedResult{}, fmt.Errorf("hash password: %w", err)
	}
	admin, err := s.CreateUser(ctx, User{Email: SeedEmail, Password: hash, Name: SeedName, Role: RoleAdmin})
	if err != nil {
		return SeedResult{}, fmt.Errorf("create admin: %w", err)
	}

	r := content.NewReconciler(s)
	welcomeSlug, err := slug.EnsureUnique(ctx, "welcome", r.Checker().Exists(content.KindPost, ""), slug.DefaultMaxAttempts)
	if err != nil {
		return SeedResult{}, err
	}
	fields, err := r.ReconcileCreate(ctx, content.PostInput{
		Slug:    content.Some(welcomeSlug),
		Content: content.Some(welcomeContent),
	})
	if err != nil {
		return SeedResult{}, fmt.Errorf("welcome post: %w", err)
	}
	post, err := s.CreatePost(ctx, fields, admin.ID)
	if err != nil {
		return SeedResult{}, fmt.Errorf("welcome post: %w", err)
	}
	return SeedResult{Admin: admin, Created: true, Welcome: &post}, nil
}

// ResetPassword replaces the password of the user with email.
func ResetPassword(ctx context.Context, s *Store, email, password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	u, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.UpdateUserPassword(ctx, u.ID, hash)
}
