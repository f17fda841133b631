// Package rpcapi realizes SPEC_FULL.md §6's RPC surface as JSON over HTTP
// using gin-gonic/gin, mirroring the router-group-per-resource layout and
// Sentry panic-recovery middleware used in the example pack's magda-api
// service.
package rpcapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/google/uuid"

	"github.com/shaban/trackd/internal/control"
)

// NewRouter builds a gin engine exposing mgr's operations. sentryConfigured
// selects whether the Sentry recovery middleware is installed; it is false
// when no DSN was provided at startup.
func NewRouter(mgr *control.Manager, sentryConfigured bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	if sentryConfigured {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(correlationID())

	r.GET("/plugins", func(c *gin.Context) {
		c.JSON(http.StatusOK, mgr.GetPlugins())
	})

	tracks := r.Group("/tracks")
	{
		tracks.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, mgr.GetTracks())
		})

		tracks.POST("", func(c *gin.Context) {
			var req createTrackRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, errorBody(err))
				return
			}
			tr, err := mgr.CreateTrack(req.TrackID, req.Name)
			if err != nil {
				writeControlError(c, err)
				return
			}
			c.JSON(http.StatusOK, tr)
		})

		tracks.DELETE("/:id", func(c *gin.Context) {
			id, err := parseID(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusBadRequest, errorBody(err))
				return
			}
			if err := mgr.DeleteTrack(id); err != nil {
				writeControlError(c, err)
				return
			}
			c.Status(http.StatusNoContent)
		})

		tracks.PATCH("/:id", func(c *gin.Context) {
			id, err := parseID(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusBadRequest, errorBody(err))
				return
			}
			var req updateTrackRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, errorBody(err))
				return
			}
			if err := mgr.UpdateTrack(id, req.Name, req.Updates); err != nil {
				writeControlError(c, err)
				return
			}
			c.Status(http.StatusNoContent)
		})

		tracks.POST("/:id/plugin-instances", func(c *gin.Context) {
			id, err := parseID(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusBadRequest, errorBody(err))
				return
			}
			var req instantiatePluginRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, errorBody(err))
				return
			}
			instID, err := mgr.InstantiatePlugin(id, req.PluginID)
			if err != nil {
				writeControlError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"plugin_instance_id": instID})
		})
	}

	r.DELETE("/plugin-instances/:id", func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody(err))
			return
		}
		if err := mgr.DeletePluginInstance(id); err != nil {
			writeControlError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	return r
}

// correlationID stamps every request with a UUID, stored in the gin context
// under "correlation_id", the way the example pack's magda-api tags
// requests for tracing. Nothing in this package logs it.
func correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("correlation_id", uuid.NewString())
		c.Next()
	}
}

func writeControlError(c *gin.Context, err error) {
	var cerr *control.Error
	if !errors.As(err, &cerr) {
		c.JSON(http.StatusInternalServerError, errorBody(err))
		return
	}
	switch cerr.Kind {
	case control.KindNotFound:
		c.JSON(http.StatusNotFound, errorBody(cerr))
	case control.KindAlreadyExists:
		c.JSON(http.StatusConflict, errorBody(cerr))
	default:
		c.JSON(http.StatusInternalServerError, errorBody(cerr))
	}
}

func errorBody(err error) gin.H {
	return gin.H{"error": err.Error()}
}
