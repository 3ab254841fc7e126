package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iiviie/bbsfront/internal/models"
	"github.com/iiviie/bbsfront/internal/submit"
)

const reconnectMillis = 3000

type pageData struct {
	Table           models.Table
	Form            models.Form
	Notice          *submit.Notice
	Columns         int
	ReconnectMillis int
}

func (s *Server) page(c *gin.Context, status int, form models.Form, notice *submit.Notice) {
	c.HTML(status, "index.html", pageData{
		Table:           s.board.Table(),
		Form:            form,
		Notice:          notice,
		Columns:         models.Columns,
		ReconnectMillis: reconnectMillis,
	})
}

func (s *Server) health(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now(),
		"clients":   s.hub.Clients(),
	})
}

// index renders the board with an empty form.
func (s *Server) index(c *gin.Context) {
	s.page(c, http.StatusOK, models.Form{}, nil)
}

// submitPage handles the HTML form and re-renders the page with the outcome.
func (s *Server) submitPage(c *gin.Context) {
	var form models.Form
	if err := c.ShouldBind(&form); err != nil {
		notice := &submit.Notice{Level: submit.LevelWarning, Message: submit.MessageInvalid}
		s.page(c, http.StatusBadRequest, form, notice)
		return
	}

	out := s.submitter.Submit(c.Request.Context(), c.ClientIP(), form)
	s.page(c, statusFor(out.Kind), out.Form, &out.Notice)
}

func (s *Server) websocket(c *gin.Context) {
	s.hub.Serve(c.Writer, c.Request, s.board.Table())
}

func (s *Server) listPosts(c *gin.Context) {
	success(c, s.board.Table())
}

func (s *Server) refresh(c *gin.Context) {
	success(c, s.board.Refresh(c.Request.Context()))
}

// createPost accepts a JSON or form encoded submission.
func (s *Server) createPost(c *gin.Context) {
	var form models.Form
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	out := s.submitter.Submit(c.Request.Context(), c.ClientIP(), form)
	if out.Kind != submit.KindPosted {
		var errs any
		if len(out.Fields) > 0 {
			errs = out.Fields
		}
		fail(c, statusFor(out.Kind), out.Notice.Message, errs, out)
		return
	}
	success(c, out)
}

func statusFor(kind submit.Kind) int {
	switch kind {
	case submit.KindPosted:
		return http.StatusOK
	case submit.KindThrottled:
		return http.StatusTooManyRequests
	case submit.KindInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
