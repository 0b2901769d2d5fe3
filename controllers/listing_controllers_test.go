package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bims-project/bims-backend/controllers"
	"github.com/bims-project/bims-backend/middlewares"
	"github.com/bims-project/bims-backend/models"
	"github.com/bims-project/bims-backend/utils"
)

func setupListingTestDB(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.User{}, &models.Listing{}, &models.Notification{}); err != nil {
		panic(err)
	}
	return db
}

func seedUser(db *gorm.DB, name, email, role string) models.User {
	user := models.User{Name: name, Email: email, Password: "hashed", Role: role}
	db.Create(&user)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Role)
	assert.NoError(t, err)
	return token
}

func setupListingRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	listingCtrl := controllers.NewListingController(db)

	authed := r.Group("/api")
	authed.Use(middlewares.AuthMiddleware())

	listings := authed.Group("/listings")
	broker := listings.Group("")
	broker.Use(middlewares.RequireRoles(models.RoleBroker))
	{
		broker.POST("/create", listingCtrl.Create)
		broker.GET("/my-listings", listingCtrl.MyListings)
		broker.PUT("/:id", listingCtrl.Update)
		broker.DELETE("/:id", listingCtrl.Delete)
	}
	listings.GET("/approved", middlewares.RequireRoles(models.RoleClient), listingCtrl.Approved)
	listings.GET("/all", middlewares.RequireRoles(models.RoleAdmin), listingCtrl.All)

	return r
}

// sendForm submits listing fields as multipart form data, the way the
// frontend does (the form may carry an image part).
func sendForm(t *testing.T, r *gin.Engine, method, path string, fields map[string]string, token string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		assert.NoError(t, writer.WriteField(k, v))
	}
	assert.NoError(t, writer.Close())

	req, err := http.NewRequest(method, path, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listingFields() map[string]string {
	return map[string]string{
		"title":       "House",
		"description": "desc",
		"type":        "house",
		"category":    "house",
		"price":       "100000",
		"location":    "Addis",
		"rooms":       "3",
	}
}

func TestCreateListing(t *testing.T) {
	utils.InitLogger()
	db := setupListingTestDB("listingcreate")
	r := setupListingRouter(db)

	brokerUser := seedUser(db, "Broker B", "broker@x.com", models.RoleBroker)
	clientUser := seedUser(db, "Client C", "client@x.com", models.RoleClient)
	brokerToken := tokenFor(t, brokerUser)

	// A fresh listing is always pending, even if the form says otherwise
	fields := listingFields()
	fields["status"] = "approved"
	w := sendForm(t, r, "POST", "/api/listings/create", fields, brokerToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp utils.JSONResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	created := resp.Data.(map[string]interface{})
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, float64(brokerUser.ID), created["broker_id"])
	assert.Equal(t, "Broker B", created["broker"].(map[string]interface{})["name"])

	// Missing required field
	fields = listingFields()
	delete(fields, "location")
	w = sendForm(t, r, "POST", "/api/listings/create", fields, brokerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-numeric price and rooms are coerced to zero
	fields = listingFields()
	fields["price"] = "expensive"
	fields["rooms"] = "many"
	w = sendForm(t, r, "POST", "/api/listings/create", fields, brokerToken)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	coerced := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), coerced["price"])
	assert.Equal(t, float64(0), coerced["rooms"])

	// Role check rejects a client before any validation runs: even an
	// empty form gets 403, not 400
	w = sendForm(t, r, "POST", "/api/listings/create", map[string]string{}, tokenFor(t, clientUser))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A non-image upload is rejected before anything hits disk
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range listingFields() {
		assert.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("image", "payload.txt")
	assert.NoError(t, err)
	_, err = part.Write([]byte("not an image"))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", "/api/listings/create", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+brokerToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoDirExists(t, "public")
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	utils.InitLogger()
	db := setupListingTestDB("listingownership")
	r := setupListingRouter(db)

	owner := seedUser(db, "Owner", "owner@x.com", models.RoleBroker)
	other := seedUser(db, "Other", "other@x.com", models.RoleBroker)

	listing := models.Listing{
		Title: "Villa", Description: "nice", Type: "house", Category: "house",
		Price: 250000, Location: "Addis", Status: models.StatusApproved, BrokerID: owner.ID,
	}
	db.Create(&listing)

	ownerToken := tokenFor(t, owner)
	otherToken := tokenFor(t, other)
	path := fmt.Sprintf("/api/listings/%d", listing.ID)

	// Merge patch: only provided fields change, status never does
	w := sendForm(t, r, "PUT", path, map[string]string{
		"price":  "300000",
		"status": "rejected",
	}, ownerToken)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Listing
	db.First(&stored, listing.ID)
	assert.Equal(t, "Villa", stored.Title)
	assert.Equal(t, float64(300000), stored.Price)
	assert.Equal(t, models.StatusApproved, stored.Status)

	// Non-owner broker gets 404, not 403: the listing's existence is
	// not disclosed
	w = sendForm(t, r, "PUT", path, map[string]string{"price": "1"}, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req, _ := http.NewRequest("DELETE", path, nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Owner can delete at any status
	req, _ = http.NewRequest("DELETE", path, nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Listing{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRoleFilteredQueries(t *testing.T) {
	utils.InitLogger()
	db := setupListingTestDB("listingqueries")
	r := setupListingRouter(db)

	brokerUser := seedUser(db, "Broker", "qbroker@x.com", models.RoleBroker)
	clientUser := seedUser(db, "Client", "qclient@x.com", models.RoleClient)
	adminUser := seedUser(db, "Admin", "qadmin@x.com", models.RoleAdmin)

	for i, status := range []string{models.StatusPending, models.StatusApproved, models.StatusRejected} {
		db.Create(&models.Listing{
			Title: fmt.Sprintf("L%d", i), Description: "d", Type: "house", Category: "house",
			Price: 100, Location: "Addis", Status: status, BrokerID: brokerUser.ID,
		})
	}

	// Clients see approved listings only
	req, _ := http.NewRequest("GET", "/api/listings/approved", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, clientUser))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.JSONResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	approved := resp.Data.([]interface{})
	assert.Len(t, approved, 1)
	assert.Equal(t, "approved", approved[0].(map[string]interface{})["status"])

	// Brokers cannot browse the client catalogue
	req, _ = http.NewRequest("GET", "/api/listings/approved", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, brokerUser))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Brokers see all of their own listings, any status
	req, _ = http.NewRequest("GET", "/api/listings/my-listings", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, brokerUser))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.([]interface{}), 3)

	// Admin overview has everything
	req, _ = http.NewRequest("GET", "/api/listings/all", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, adminUser))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.([]interface{}), 3)

	// Client cannot reach the admin overview
	req, _ = http.NewRequest("GET", "/api/listings/all", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, clientUser))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
