package handler

import (
	"context"
	"encoding/json"
	"strconv"

	"resto_manager/config"
	"resto_manager/database"
	"resto_manager/helper"
	"resto_manager/model"
	"resto_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

const menuCacheKey = "menus:all"

// GetMenus lists the catalog. The unfiltered list is cached in redis using
// the RESTAURANT_CACHE_TTL knob; filtered queries go straight to the DB.
func GetMenus(c *fiber.Ctx) error {
	category := c.Query("category")
	available := c.Query("available")

	if category == "" && available == "" {
		if cached, err := redisClient.Get(context.Background(), menuCacheKey).Result(); err == nil {
			var menus []model.Menu
			if err := json.Unmarshal([]byte(cached), &menus); err == nil {
				return utils.SuccessResponse(c, fiber.StatusOK, menus)
			}
		}
	}

	query := database.DB.Model(&model.Menu{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if available != "" {
		query = query.Where("is_available = ?", available == "true")
	}

	var menus []model.Menu
	if err := query.Order("category asc, name asc").Find(&menus).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal mengambil daftar menu", err)
	}

	if category == "" && available == "" {
		if payload, err := json.Marshal(menus); err == nil {
			redisClient.Set(context.Background(), menuCacheKey, payload, config.CacheTTL())
		}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, menus)
}

func GetMenuById(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("menuId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID menu tidak valid", err)
	}

	var menu model.Menu
	if err := database.DB.First(&menu, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Menu tidak ditemukan", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, menu)
}

func CreateMenu(c *fiber.Ctx) error {
	var input model.CreateMenuInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Request tidak valid", err)
	}
	if err := validate.Struct(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validasi gagal", err)
	}

	menu := model.Menu{
		Name:        input.Name,
		Description: input.Description,
		Price:       decimal.NewFromFloat(input.Price),
		Category:    input.Category,
		IsAvailable: true,
	}
	if input.IsAvailable != nil {
		menu.IsAvailable = *input.IsAvailable
	}

	if err := database.DB.Create(&menu).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal menambahkan menu", err)
	}

	invalidateMenuCache()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Menu berhasil ditambahkan",
		"data":    menu,
	})
}

func UpdateMenu(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("menuId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID menu tidak valid", err)
	}

	var input model.UpdateMenuInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Request tidak valid", err)
	}
	if err := validate.Struct(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validasi gagal", err)
	}

	var menu model.Menu
	if err := database.DB.First(&menu, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Menu tidak ditemukan", err)
	}

	copier.CopyWithOption(&menu, &input, copier.Option{IgnoreEmpty: true})
	if input.Price != nil {
		menu.Price = decimal.NewFromFloat(*input.Price)
	}
	if input.IsAvailable != nil {
		menu.IsAvailable = *input.IsAvailable
	}

	if err := database.DB.Save(&menu).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal mengupdate menu", err)
	}

	invalidateMenuCache()
	return utils.SuccessResponse(c, fiber.StatusOK, menu)
}

// UploadMenuImage attaches a photo to a menu item via cloudinary
func UploadMenuImage(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("menuId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID menu tidak valid", err)
	}

	var menu model.Menu
	if err := database.DB.First(&menu, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Menu tidak ditemukan", err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File gambar wajib diisi", err)
	}

	url, err := helper.UploadMenuImage(c.Context(), file)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal mengunggah gambar", err)
	}

	menu.Image = &url
	if err := database.DB.Model(&menu).Update("image", url).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal menyimpan gambar", err)
	}

	invalidateMenuCache()
	return utils.SuccessResponse(c, fiber.StatusOK, menu)
}

func DeleteMenu(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("menuId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID menu tidak valid", err)
	}

	var menu model.Menu
	if err := database.DB.First(&menu, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Menu tidak ditemukan", err)
	}

	if err := database.DB.Delete(&menu).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal menghapus menu", err)
	}

	invalidateMenuCache()
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Menu berhasil dihapus"})
}

func invalidateMenuCache() {
	redisClient.Del(context.Background(), menuCacheKey)
}
