// api/handlers/detect_handlers.go
package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"studysynth/api/classifier"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DetectHandlers struct {
	Classifier *classifier.Client
	UploadDir  string
}

func NewDetectHandlers(cl *classifier.Client, uploadDir string) *DetectHandlers {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Printf("WARNING: failed to create upload dir %s: %v", uploadDir, err)
	}
	return &DetectHandlers{
		Classifier: cl,
		UploadDir:  uploadDir,
	}
}

// DetectEmotion relays one uploaded webcam frame to the external
// classifier and returns the detected label. The temporary upload is
// removed whether or not classification succeeds.
func (h *DetectHandlers) DetectEmotion(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "image file is required"})
		return
	}

	tmpPath := filepath.Join(h.UploadDir, uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		log.Printf("Error saving uploaded frame: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save uploaded image"})
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			log.Printf("Error removing temporary upload %s: %v", tmpPath, err)
		}
	}()

	image, err := os.ReadFile(tmpPath)
	if err != nil {
		log.Printf("Error reading uploaded frame %s: %v", tmpPath, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to read uploaded image"})
		return
	}

	emotion, err := h.Classifier.Detect(c.Request.Context(), image)
	if err != nil {
		log.Printf("Error detecting emotion: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "emotion": emotion})
}
