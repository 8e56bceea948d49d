package service

import (
	"context"
	"testing"

	"course_platform/internal/model"
	"course_platform/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourseServiceForTest(t *testing.T) (CourseService, *fakeCourseRepo) {
	repo := newFakeCourseRepo()
	return NewCourseService(repo, t.TempDir()), repo
}

func seedCourse(t *testing.T, repo *fakeCourseRepo, ownerID int) *model.Course {
	t.Helper()
	course := &model.Course{
		OwnerID:  ownerID,
		Title:    "Algebra I",
		Category: "math",
	}
	require.NoError(t, repo.Create(context.Background(), course))
	return course
}

func TestCourseService_CreateCourse(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)

	course, err := svc.CreateCourse(context.Background(), 4, model.RoleTeacher, model.CreateCourseRequest{
		Title:    "Geometry",
		Category: "math",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, course.OwnerID)
	stored, _ := repo.FindByID(context.Background(), course.ID)
	assert.NotNil(t, stored)
}

func TestCourseService_CreateCourse_StudentForbidden(t *testing.T) {
	svc, _ := newCourseServiceForTest(t)

	_, err := svc.CreateCourse(context.Background(), 4, model.RoleStudent, model.CreateCourseRequest{
		Title:    "Geometry",
		Category: "math",
	})

	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestCourseService_GetCourse_NotFound(t *testing.T) {
	svc, _ := newCourseServiceForTest(t)

	_, err := svc.GetCourse(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseService_UpdateCourse_OwnerTeacher(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	course := seedCourse(t, repo, 4)

	newTitle := "Algebra II"
	updated, err := svc.UpdateCourse(context.Background(), course.ID, 4, model.RoleTeacher, model.UpdateCourseRequest{
		Title: &newTitle,
	})

	require.NoError(t, err)
	assert.Equal(t, "Algebra II", updated.Title)
	assert.Equal(t, "math", updated.Category) // untouched fields survive
}

func TestCourseService_UpdateCourse_OtherTeacherForbidden(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	course := seedCourse(t, repo, 4)

	newTitle := "Hijacked"
	_, err := svc.UpdateCourse(context.Background(), course.ID, 7, model.RoleTeacher, model.UpdateCourseRequest{
		Title: &newTitle,
	})

	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestCourseService_UpdateCourse_AdminModifiesAny(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	course := seedCourse(t, repo, 4)

	newCategory := "science"
	updated, err := svc.UpdateCourse(context.Background(), course.ID, 1, model.RoleAdmin, model.UpdateCourseRequest{
		Category: &newCategory,
	})

	require.NoError(t, err)
	assert.Equal(t, "science", updated.Category)
}

func TestCourseService_DeleteCourse(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	course := seedCourse(t, repo, 4)

	require.NoError(t, svc.DeleteCourse(context.Background(), course.ID, 4, model.RoleTeacher))

	stored, _ := repo.FindByID(context.Background(), course.ID)
	assert.Nil(t, stored)
}

func TestCourseService_DeleteCourse_OtherTeacherForbidden(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	course := seedCourse(t, repo, 4)

	err := svc.DeleteCourse(context.Background(), course.ID, 7, model.RoleTeacher)

	assert.ErrorIs(t, err, policy.ErrForbidden)
	stored, _ := repo.FindByID(context.Background(), course.ID)
	assert.NotNil(t, stored)
}

func TestCourseService_DeleteCourse_NotFound(t *testing.T) {
	svc, _ := newCourseServiceForTest(t)

	err := svc.DeleteCourse(context.Background(), 99, 1, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseService_ListCourses_Filters(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	seedCourse(t, repo, 4)
	other := &model.Course{OwnerID: 7, Title: "Biology", Category: "science"}
	require.NoError(t, repo.Create(context.Background(), other))

	all, err := svc.ListCourses(context.Background(), model.CourseFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	category := "science"
	filtered, err := svc.ListCourses(context.Background(), model.CourseFilters{Category: &category})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Biology", filtered[0].Title)
}

func TestCourseService_GetMaterialPath_NoMaterial(t *testing.T) {
	svc, repo := newCourseServiceForTest(t)
	course := seedCourse(t, repo, 4)

	_, _, err := svc.GetMaterialPath(context.Background(), course.ID)
	assert.Error(t, err)
}
