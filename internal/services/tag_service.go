package services

import (
	"katalog/internal/models"
	"katalog/internal/repositories"
)

// TagService handles business logic related to tags.
type TagService struct {
	repo repositories.TagRepository
}

// NewTagService creates a new TagService.
func NewTagService(repo repositories.TagRepository) *TagService {
	return &TagService{
		repo: repo,
	}
}

// ListTags retrieves all tags, optionally filtered by a name search.
func (s *TagService) ListTags(search string) ([]models.Tag, error) {
	return s.repo.List(search)
}

// GetTagByID retrieves a single tag by its ID.
func (s *TagService) GetTagByID(id string) (*models.Tag, error) {
	return s.repo.GetByID(id)
}

// CreateTag creates a new tag after checking the name rules.
func (s *TagService) CreateTag(name string) (*models.Tag, error) {
	if err := s.validateName(name, ""); err != nil {
		return nil, err
	}
	tag := &models.Tag{Name: name}
	if err := s.repo.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTag renames an existing tag.
func (s *TagService) UpdateTag(id, name string) (*models.Tag, error) {
	tag, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.validateName(name, id); err != nil {
		return nil, err
	}
	tag.Name = name
	if err := s.repo.Update(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag deletes a tag. Products referencing it merely lose the
// association.
func (s *TagService) DeleteTag(id string) error {
	return s.repo.Delete(id)
}

func (s *TagService) validateName(name, excludeID string) error {
	if name == "" {
		return ValidationErrors{{Field: "name", Reason: "name required"}}
	}
	count, err := s.repo.CountByName(name, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ValidationErrors{{Field: "name", Reason: "name not unique"}}
	}
	return nil
}
