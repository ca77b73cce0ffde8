package kernel

import (
	"errors"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"git.sr.ht/~aondrejcak/trendify-api/models"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel"
)

func (art *AppRuntime) PrepareDatabase() error {
	dbLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	// TranslateError maps driver duplicate-key failures onto
	// gorm.ErrDuplicatedKey, which the credential bootstrap relies on.
	db, err := gorm.Open(mysql.Open(art.DatabaseDSN), &gorm.Config{
		Logger:         dbLogger,
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	if err = db.Use(otelgorm.NewPlugin(
		otelgorm.WithAttributes(),
		otelgorm.WithTracerProvider(otel.GetTracerProvider()),
	)); err != nil {
		return err
	}

	_ = db.AutoMigrate(&models.Admin{})
	_ = db.AutoMigrate(&models.User{})
	_ = db.AutoMigrate(&models.CartItem{})
	_ = db.AutoMigrate(&models.Contact{})
	_ = db.AutoMigrate(&models.Subscriber{})

	art.DatabaseClient = db

	return nil
}

func (rt *RequestRuntime) First(obj interface{}, where string, args ...interface{}) (bool, error) {
	if err := rt.DB.WithContext(rt.SpanContext).Where(where, args...).First(obj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, rt.MakeError(err)
	}
	return true, nil
}
