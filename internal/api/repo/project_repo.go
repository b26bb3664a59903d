package repo

import (
	"blockgen"
	"blockgen/internal/api/models"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	Db *gorm.DB
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{Db: blockgen.DB}
}

// FindByID retrieves a project without its artifacts
func (slf *ProjectRepository) FindByID(id uint) (models.Project, error) {
	var project models.Project
	err := slf.Db.First(&project, id).Error
	return project, err
}

// FindAllByOwner retrieves the projects of a user, most recent first
func (slf *ProjectRepository) FindAllByOwner(ownerID uint) ([]models.Project, error) {
	var projects []models.Project
	err := slf.Db.
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&projects).Error
	return projects, err
}

func (slf *ProjectRepository) Create(project *models.Project) error {
	return slf.Db.Create(project).Error
}

func (slf *ProjectRepository) Update(project *models.Project) error {
	return slf.Db.Save(project).Error
}

// Delete removes a project and its artifacts
func (slf *ProjectRepository) Delete(id uint) error {
	return slf.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Artifact{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}
