package service

import (
	"context"
	"errors"
	"time"

	"course_platform/internal/model"
	"course_platform/internal/repository"
)

// fakeUserRepo is an in-memory repository.UserRepository for service tests
type fakeUserRepo struct {
	users  map[int]*model.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = f.nextID
	f.nextID++
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindAll(_ context.Context, role *string) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if role == nil || *role == "" || u.Role == *role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id int, role string) error {
	u, ok := f.users[id]
	if !ok {
		return errors.New("user not found for role update")
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id int, token string, expiry time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return errors.New("user not found for reset token update")
	}
	u.ResetToken = &token
	u.ResetTokenExpiry = &expiry
	return nil
}

func (f *fakeUserRepo) ClearResetToken(_ context.Context, id int) error {
	u, ok := f.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
	return nil
}

func (f *fakeUserRepo) ConsumeResetToken(_ context.Context, token, passwordHash string) (int, error) {
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(time.Now()) {
			u.PasswordHash = passwordHash
			u.ResetToken = nil
			u.ResetTokenExpiry = nil
			return u.ID, nil
		}
	}
	return 0, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.users[id]; !ok {
		return errors.New("user not found for deletion")
	}
	delete(f.users, id)
	return nil
}

// fakeMailer records sends and can simulate transport failures
type fakeMailer struct {
	welcomes    []string
	resetEmails []string
	resetTokens []string
	failWelcome bool
	failReset   bool
}

func (f *fakeMailer) SendWelcome(_ context.Context, toEmail, _ string) error {
	if f.failWelcome {
		return errors.New("smtp unreachable")
	}
	f.welcomes = append(f.welcomes, toEmail)
	return nil
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, toEmail, _ string, resetToken string) error {
	if f.failReset {
		return errors.New("smtp unreachable")
	}
	f.resetEmails = append(f.resetEmails, toEmail)
	f.resetTokens = append(f.resetTokens, resetToken)
	return nil
}

// fakeCourseRepo is an in-memory repository.CourseRepository for service tests
type fakeCourseRepo struct {
	courses map[int64]*model.Course
	nextID  int64
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[int64]*model.Course), nextID: 1}
}

func (f *fakeCourseRepo) Create(_ context.Context, c *model.Course) error {
	c.ID = f.nextID
	f.nextID++
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id int64) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) FindAll(_ context.Context, filters model.CourseFilters) ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.courses {
		if filters.OwnerID != nil && c.OwnerID != *filters.OwnerID {
			continue
		}
		if filters.Category != nil && *filters.Category != "" && c.Category != *filters.Category {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCourseRepo) Update(_ context.Context, c *model.Course) error {
	if _, ok := f.courses[c.ID]; !ok {
		return errors.New("course not found for update")
	}
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.courses[id]; !ok {
		return errors.New("course not found for deletion")
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) UpdateMaterialPath(_ context.Context, id int64, materialPath string) error {
	c, ok := f.courses[id]
	if !ok {
		return errors.New("course not found for material path update")
	}
	c.MaterialPath = &materialPath
	return nil
}
