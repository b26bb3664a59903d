package repo

import (
	"blockgen"
	"blockgen/internal/api/models"

	"gorm.io/gorm"
)

type ArtifactRepository struct {
	Db *gorm.DB
}

func NewArtifactRepository() *ArtifactRepository {
	return &ArtifactRepository{Db: blockgen.DB}
}

// CreateBatch stores the artifacts of one generation request atomically
func (slf *ArtifactRepository) CreateBatch(artifacts []models.Artifact) error {
	return slf.Db.Transaction(func(tx *gorm.DB) error {
		for i := range artifacts {
			if err := tx.Create(&artifacts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByProject lists the artifacts of a project, most recent first
func (slf *ArtifactRepository) FindByProject(projectID uint) ([]models.Artifact, error) {
	var artifacts []models.Artifact
	err := slf.Db.
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&artifacts).Error
	return artifacts, err
}

func (slf *ArtifactRepository) FindByID(projectID, id uint) (models.Artifact, error) {
	var artifact models.Artifact
	err := slf.Db.Where("project_id = ?", projectID).First(&artifact, id).Error
	return artifact, err
}
