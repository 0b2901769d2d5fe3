package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bims-project/bims-backend/events"
	"github.com/bims-project/bims-backend/models"
	"github.com/bims-project/bims-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const listingUploadDir = "public/uploads/listing_images"

type ListingController struct {
	DB *gorm.DB
}

func NewListingController(db *gorm.DB) *ListingController {
	return &ListingController{DB: db}
}

// Create stores a new listing for the calling broker. Status is always
// pending regardless of input; only an admin can move it from there.
func (lc *ListingController) Create(c *gin.Context) {
	brokerID := c.GetUint("user_id")

	title := c.PostForm("title")
	description := c.PostForm("description")
	listingType := c.PostForm("type")
	category := c.PostForm("category")
	price := c.PostForm("price")
	location := c.PostForm("location")

	if title == "" || description == "" || listingType == "" || category == "" || price == "" || location == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("missing required fields"))
		return
	}

	listing := models.Listing{
		Title:       title,
		Description: description,
		Type:        listingType,
		Category:    category,
		Price:       parsePrice(price),
		Location:    location,
		Size:        c.PostForm("size"),
		Rooms:       parseRooms(c.PostForm("rooms")),
		Condition:   c.PostForm("condition"),
		Status:      models.StatusPending,
		BrokerID:    brokerID,
	}

	if image, err := saveListingImage(c); err != nil {
		utils.RespondError(c, imageErrorStatus(err), err)
		return
	} else if image != "" {
		listing.Image = image
	}

	if err := lc.DB.Create(&listing).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	lc.DB.Preload("Broker").First(&listing, listing.ID)

	utils.InfoLogger.Printf("Listing %d created by broker %d (pending approval)", listing.ID, brokerID)

	utils.RespondJSON(c, http.StatusCreated, "Listing created successfully (pending approval)", listing)
}

// MyListings returns the calling broker's own listings, all statuses,
// newest first.
func (lc *ListingController) MyListings(c *gin.Context) {
	brokerID := c.GetUint("user_id")

	var listings []models.Listing
	if err := lc.DB.Preload("Broker").
		Where("broker_id = ?", brokerID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "My listings", listings)
}

// Update applies a merge patch to an owned listing: fields absent or
// empty in the form keep their stored values. Status is never touched
// here, whatever the request contains.
func (lc *ListingController) Update(c *gin.Context) {
	brokerID := c.GetUint("user_id")
	id := c.Param("id")

	var listing models.Listing
	if err := lc.DB.Where("id = ? AND broker_id = ?", id, brokerID).First(&listing).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("listing not found or access denied"))
		return
	}

	if v := c.PostForm("title"); v != "" {
		listing.Title = v
	}
	if v := c.PostForm("description"); v != "" {
		listing.Description = v
	}
	if v := c.PostForm("type"); v != "" {
		listing.Type = v
	}
	if v := c.PostForm("category"); v != "" {
		listing.Category = v
	}
	if v := c.PostForm("price"); v != "" {
		listing.Price = parsePrice(v)
	}
	if v := c.PostForm("location"); v != "" {
		listing.Location = v
	}
	if v := c.PostForm("size"); v != "" {
		listing.Size = v
	}
	if v := c.PostForm("rooms"); v != "" {
		listing.Rooms = parseRooms(v)
	}
	if v := c.PostForm("condition"); v != "" {
		listing.Condition = v
	}

	if image, err := saveListingImage(c); err != nil {
		utils.RespondError(c, imageErrorStatus(err), err)
		return
	} else if image != "" {
		removeListingImage(listing.Image)
		listing.Image = image
	}

	if err := lc.DB.Save(&listing).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	lc.DB.Preload("Broker").First(&listing, listing.ID)

	utils.RespondJSON(c, http.StatusOK, "Listing updated successfully", listing)
}

// Delete removes an owned listing and, best effort, its image file.
func (lc *ListingController) Delete(c *gin.Context) {
	brokerID := c.GetUint("user_id")
	id := c.Param("id")

	var listing models.Listing
	if err := lc.DB.Where("id = ? AND broker_id = ?", id, brokerID).First(&listing).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("listing not found or access denied"))
		return
	}

	if err := lc.DB.Delete(&listing).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	removeListingImage(listing.Image)

	utils.RespondJSON(c, http.StatusOK, "Listing deleted successfully", gin.H{"id": listing.ID})
}

// Approved returns the client-facing catalogue: approved listings only.
func (lc *ListingController) Approved(c *gin.Context) {
	var listings []models.Listing
	if err := lc.DB.Preload("Broker").
		Where("status = ?", models.StatusApproved).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Approved listings", listings)
}

// All returns every listing for the admin overview.
func (lc *ListingController) All(c *gin.Context) {
	var listings []models.Listing
	if err := lc.DB.Preload("Broker").
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All listings", listings)
}

// UpdateStatus lets an admin move a listing between moderation states.
// Re-approving or re-rejecting is allowed and fires its own event again.
func (lc *ListingController) UpdateStatus(c *gin.Context) {
	adminID := c.GetUint("user_id")
	id := c.Param("id")

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !models.ValidStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	listing, err := setListingStatus(lc.DB, id, body.Status, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("listing not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Listing %s", listing.Status), listing)
}

// setListingStatus performs the moderation transition and emits the
// status event. Shared with the admin approve/reject endpoints.
func setListingStatus(db *gorm.DB, id string, status string, adminID uint) (*models.Listing, error) {
	var listing models.Listing
	if err := db.First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}

	listing.Status = status
	if err := db.Save(&listing).Error; err != nil {
		return nil, err
	}
	db.Preload("Broker").First(&listing, listing.ID)

	utils.InfoLogger.Printf("Listing %d set to %s by admin %d", listing.ID, status, adminID)

	events.EmitStatusChange(events.ListingStatusEvent{
		ListingID: listing.ID,
		Title:     listing.Title,
		BrokerID:  listing.BrokerID,
		AdminID:   adminID,
		Status:    listing.Status,
	})

	return &listing, nil
}

// Non-numeric price and rooms inputs are coerced to zero rather than
// rejected, matching the form-driven frontend.
func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseRooms(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func imageErrorStatus(err error) int {
	if errors.Is(err, errInvalidImageType) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var errInvalidImageType = errors.New("image must be jpg, jpeg, png, gif or webp")

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// saveListingImage stores an optional multipart "image" file under the
// uploads dir with a uuid name and returns its public URL path.
// Returns "" when the request carries no image. Files outside the
// image extension allow-list are rejected before anything is written.
func saveListingImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", errInvalidImageType
	}

	if err := os.MkdirAll(listingUploadDir, 0o755); err != nil {
		return "", err
	}

	filename := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(listingUploadDir, filename)); err != nil {
		return "", err
	}

	return "/uploads/listing_images/" + filename, nil
}

func removeListingImage(image string) {
	if image == "" {
		return
	}
	local := strings.Replace(image, "/uploads/listing_images/", listingUploadDir+"/", 1)
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		utils.ErrorLogger.Printf("failed to remove listing image %s: %v", local, err)
	}
}
