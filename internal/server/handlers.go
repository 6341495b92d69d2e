package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/papergen/internal/extract"
	"github.com/abhisek/papergen/internal/questiongen"
	"github.com/abhisek/papergen/internal/render"
	"github.com/abhisek/papergen/internal/store"
)

// paperView is the JSON shape of a generated paper.
type paperView struct {
	ID          string         `json:"id"`
	Subject     string         `json:"subject"`
	Institution string         `json:"institution"`
	Level       string         `json:"level"`
	Requested   int            `json:"requested"`
	Failed      bool           `json:"failed"`
	Questions   []questionView `json:"questions"`
}

type questionView struct {
	Line  string `json:"line"`
	Level string `json:"level,omitempty"`
	Marks int    `json:"marks,omitempty"`
}

func newPaperView(sess *Session) paperView {
	qs := sess.Set
	b := qs.Branding.WithDefaults()
	v := paperView{
		ID:          sess.ID,
		Subject:     b.Subject,
		Institution: b.Institution,
		Level:       qs.Level.String(),
		Requested:   qs.Requested,
		Failed:      qs.Failed(),
		Questions:   make([]questionView, 0, len(qs.Questions)),
	}
	for _, q := range qs.Questions {
		qv := questionView{Line: q.Line}
		if lvl, ok := q.Level(); ok {
			qv.Level = lvl.String()
		}
		if m, ok := q.Marks(); ok {
			qv.Marks = m
		}
		v.Questions = append(v.Questions, qv)
	}
	return v
}

// GET /
func (s *Server) indexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"MaxQuestions": MaxQuestions,
	})
}

// GET /healthz
func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /papers
func (s *Server) createPaper(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	source, err := s.sourceText(c)
	if err != nil {
		s.fail(c, statusFor(err), err.Error())
		return
	}

	level, err := questiongen.ParseLevel(c.DefaultPostForm("difficulty", string(questiongen.L1)))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	count, err := strconv.Atoi(strings.TrimSpace(c.DefaultPostForm("num_questions", "10")))
	if err != nil || count < 1 || count > MaxQuestions {
		s.fail(c, http.StatusBadRequest, fmt.Sprintf("Number of questions must be between 1 and %d.", MaxQuestions))
		return
	}

	branding := questiongen.Branding{
		Subject:     strings.TrimSpace(c.PostForm("subject")),
		Institution: strings.TrimSpace(c.PostForm("college_name")),
	}
	if fh, err := c.FormFile("logo"); err == nil {
		logo, err := readUpload(fh)
		if err != nil {
			s.fail(c, http.StatusBadRequest, "Could not read the logo upload.")
			return
		}
		branding.Logo = logo
	}

	ctx := c.Request.Context()
	qs := s.gen.Produce(ctx, questiongen.Request{
		Source: source,
		Count:  count,
		Level:  level,
	}, branding)

	id := s.sessions.Put(qs)

	if s.repo != nil {
		err := s.repo.AppendPaper(ctx, store.PaperEventData{
			SessionID:   id,
			Subject:     branding.Subject,
			Institution: branding.Institution,
			Level:       level.String(),
			Requested:   count,
			Produced:    len(qs.Questions),
			Sentinel:    qs.Failed(),
			SourceChars: utf8.RuneCountInString(source),
		})
		if err != nil {
			s.log.Warn("failed to record paper event", "session_id", id, "error", err)
		}
	}

	c.Redirect(http.StatusSeeOther, "/papers/"+id)
}

// GET /papers/:id
func (s *Server) showPaper(c *gin.Context) {
	sess, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		s.notFound(c)
		return
	}

	view := newPaperView(sess)
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, view)
		return
	}
	c.HTML(http.StatusOK, "result.tmpl", view)
}

// GET /papers/:id/pdf and /papers/:id/docx
func (s *Server) download(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.sessions.Get(c.Param("id"))
		if !ok {
			s.notFound(c)
			return
		}

		r, err := render.ForFormat(format, s.render)
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}

		var buf bytes.Buffer
		if err := r.Render(&buf, sess.Set); err != nil {
			s.log.Error("render failed", "format", format, "session_id", sess.ID, "error", err)
			c.String(http.StatusInternalServerError, "Could not render the question paper.")
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, r.Filename()))
		c.Data(http.StatusOK, r.ContentType(), buf.Bytes())
	}
}

var (
	errNoSource    = errors.New("please upload a PDF, DOCX or text file")
	errUploadLarge = errors.New("the upload is too large")
)

// sourceText reads the uploaded document, or the pasted "text" field when no
// file was sent, and extracts its plain text.
func (s *Server) sourceText(c *gin.Context) (string, error) {
	fh, err := c.FormFile("pdf")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		if text := strings.TrimSpace(c.PostForm("text")); text != "" {
			return extract.Text("pasted.txt", []byte(text))
		}
		return "", errNoSource
	case err != nil:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", errUploadLarge
		}
		return "", fmt.Errorf("read upload: %w", err)
	}

	data, err := readUpload(fh)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return extract.Text(fh.Filename, data)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errUploadLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, extract.ErrUnsupported), errors.Is(err, extract.ErrEmpty):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// fail re-renders the form with a message, or answers JSON clients in kind.
func (s *Server) fail(c *gin.Context, status int, msg string) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.HTML(status, "index.tmpl", gin.H{
		"MaxQuestions": MaxQuestions,
		"Error":        msg,
	})
}

func (s *Server) notFound(c *gin.Context) {
	const msg = "Paper not found or expired. Please generate it again."
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return
	}
	c.String(http.StatusNotFound, msg)
}
