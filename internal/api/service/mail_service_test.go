package service

import (
	"bytes"
	"context"
	"testing"

	"blockgen/internal/api/models"
	"blockgen/internal/gen"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifact() (models.Project, models.Artifact) {
	project := models.Project{ID: 3, Name: "Transfers"}
	artifact := models.Artifact{
		ID:        7,
		ProjectID: 3,
		PassID:    "pass-1",
		Backend:   gen.BackendGo,
		Code:      "package main\n",
		Diagnostics: models.Diagnostics{{
			NodeID:   "inv",
			Code:     gen.CodeNegativeAmount,
			Severity: gen.SeverityAlert,
			Message:  "transfer amount -5 must not be negative",
		}},
	}
	return project, artifact
}

func TestMail_BuildArtifactMessage(t *testing.T) {
	svc := &MailService{config: testConfig(), logger: zerolog.Nop()}
	project, artifact := testArtifact()

	m, err := svc.BuildArtifactMessage(project, artifact, ArtifactMail{To: []string{"ops@example.com"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Transfers: go artifact pass-1")
	assert.Contains(t, raw, "ops@example.com")
	assert.Contains(t, raw, "blockgen@example.com")
	assert.Contains(t, raw, `filename="chaincode.go"`)
}

func TestMail_BuildArtifactMessage_NoRecipient(t *testing.T) {
	svc := &MailService{config: testConfig(), logger: zerolog.Nop()}
	project, artifact := testArtifact()

	_, err := svc.BuildArtifactMessage(project, artifact, ArtifactMail{})
	assert.Error(t, err)
}

func TestMail_SendArtifact_NotConfigured(t *testing.T) {
	svc := &MailService{logger: zerolog.Nop()}
	project, artifact := testArtifact()

	err := svc.SendArtifact(context.Background(), project, artifact, ArtifactMail{To: []string{"ops@example.com"}})
	assert.ErrorIs(t, err, ErrMailNotConfigured)
}

func TestArtifactSummary(t *testing.T) {
	project, artifact := testArtifact()

	summary := artifactSummary(project, artifact)
	assert.Contains(t, summary, "Project: Transfers\n")
	assert.Contains(t, summary, "Diagnostics (1 blocking):\n")
	assert.Contains(t, summary, "  ALERT [negative_amount] block inv: transfer amount -5 must not be negative\n")

	artifact.Diagnostics = nil
	assert.Contains(t, artifactSummary(project, artifact), "No diagnostics.")
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "chaincode.go", attachmentName(models.Artifact{Backend: gen.BackendGo}))
	assert.Equal(t, "natural.txt", attachmentName(models.Artifact{Backend: gen.BackendNatural}))
}
