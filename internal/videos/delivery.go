package videos

import "github.com/labstack/echo/v4"

type Handler interface {
	UploadVideo() echo.HandlerFunc
	StartProcessing() echo.HandlerFunc
	GetStatus() echo.HandlerFunc
	GetResults() echo.HandlerFunc
	GetHistory() echo.HandlerFunc
	DownloadVideo() echo.HandlerFunc
}
