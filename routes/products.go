package routes

import (
	"productr/db"
	"productr/models"
	"productr/otp"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type statusRequest struct {
	Status string `json:"status"`
}

// listProducts returns every product for the owner, newest first. The
// optional status query narrows to one dashboard tab.
func listProducts(c *fiber.Ctx) error {
	email := otp.NormalizeEmail(c.Params("email"))
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Owner email is required",
		})
	}

	query := db.DB.Where("user_email = ?", email)

	if status := c.Query("status"); status != "" {
		if !models.ValidStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Status must be 'Published' or 'Unpublished'",
			})
		}
		query = query.Where("status = ?", status)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get products",
		})
	}

	return c.JSON(products)
}

func createProduct(c *fiber.Ctx) error {
	product := new(models.Product)
	if err := c.BodyParser(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	// Apply creation defaults before validating
	if product.Status == "" {
		product.Status = models.StatusPublished
	}
	if product.Category == "" {
		product.Category = "Foods"
	}
	if product.IsReturnable == "" {
		product.IsReturnable = "Yes"
	}
	if !models.ValidStatus(product.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be 'Published' or 'Unpublished'",
		})
	}

	product.UserEmail = otp.NormalizeEmail(product.UserEmail)

	// Validate required fields before any store write
	if err := validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Identifier is system-generated
	product.ID = 0

	if err := db.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create product",
		})
	}

	zap.S().Infof("product created: id=%d name=%q owner=%s", product.ID, product.Name, product.UserEmail)
	broadcastEvent("product.created", product)
	return c.Status(fiber.StatusCreated).JSON(product)
}

// updateProduct replaces the mutable fields in full; last writer wins. The
// identifier and the owner email stay as they are.
func updateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	payload := new(models.Product)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	var existing models.Product
	if err := db.DB.First(&existing, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to find product",
		})
	}

	if payload.Status == "" {
		payload.Status = existing.Status
	}
	if !models.ValidStatus(payload.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be 'Published' or 'Unpublished'",
		})
	}
	payload.UserEmail = existing.UserEmail

	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	existing.Name = payload.Name
	existing.Category = payload.Category
	existing.QuantityStock = payload.QuantityStock
	existing.Mrp = payload.Mrp
	existing.SellingPrice = payload.SellingPrice
	existing.BrandName = payload.BrandName
	existing.IsReturnable = payload.IsReturnable
	existing.Images = payload.Images
	existing.Status = payload.Status

	if err := db.DB.Save(&existing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update product",
		})
	}

	broadcastEvent("product.updated", &existing)
	return c.JSON(existing)
}

// setProductStatus backs the dashboard's Publish/Unpublish button. Only the
// status field is persisted.
func setProductStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if !models.ValidStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be 'Published' or 'Unpublished'",
		})
	}

	var product models.Product
	if err := db.DB.First(&product, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to find product",
		})
	}

	if err := db.DB.Model(&product).Update("status", req.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update status",
		})
	}
	product.Status = req.Status

	zap.S().Infof("product status changed: id=%d status=%s", product.ID, req.Status)
	broadcastEvent("product.status", &product)
	return c.JSON(product)
}

// deleteProduct is idempotent: deleting an absent id still succeeds.
func deleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := db.DB.Delete(&models.Product{}, id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete product",
		})
	}

	zap.S().Infof("product deleted: id=%s", id)
	broadcastEvent("product.deleted", fiber.Map{"id": id})
	return c.JSON(fiber.Map{
		"message": "Product deleted",
	})
}
