package annotations

import "github.com/labstack/echo/v4"

type Handler interface {
	CreateAnnotation() echo.HandlerFunc
	ListAnnotations() echo.HandlerFunc
	UpdateAnnotation() echo.HandlerFunc
	DeleteAnnotation() echo.HandlerFunc
	GetStats() echo.HandlerFunc
}
