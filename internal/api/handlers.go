package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/youruser/eidqr/internal/card"
	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/export"
	"github.com/youruser/eidqr/internal/intake"
	"github.com/youruser/eidqr/internal/session"
	"github.com/youruser/eidqr/internal/templates"
)

// Handler serves the card API.
type Handler struct {
	registry     *templates.Registry
	sessions     *session.Store
	profile      *intake.Intake
	qr           *intake.Intake
	log          *log.Logger
	cookieMaxAge time.Duration
}

// NewHandler returns a Handler over reg and store. Session cookies live as
// long as idle sessions do.
func NewHandler(reg *templates.Registry, store *session.Store, idle time.Duration, l *log.Logger) *Handler {
	return &Handler{
		registry:     reg,
		sessions:     store,
		profile:      intake.New("Profile image"),
		qr:           intake.New("QR code"),
		log:          l,
		cookieMaxAge: idle,
	}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := intake.DefaultQRSize
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = v
	}
	b, err := intake.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, intake.MIMEPNG, b)
}

type imageView struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	DataURL string `json:"data_url"`
}

type cardView struct {
	Profile     *imageView         `json:"profile"`
	QR          *imageView         `json:"qr"`
	Template    *templates.Variant `json:"template"`
	PhoneNumber string             `json:"phone_number"`
	DisplayName string             `json:"display_name"`
	Empty       bool               `json:"empty"`
	Complete    bool               `json:"complete"`
	InProgress  bool               `json:"in_progress"`
}

func viewImage(img *intake.UploadedImage) *imageView {
	if img == nil {
		return nil
	}
	v := &imageView{Name: img.Name, Type: img.Type, Size: img.Size, DataURL: img.Encoded}
	if img.Image != nil {
		b := img.Image.Bounds()
		v.Width, v.Height = b.Dx(), b.Dy()
	}
	return v
}

func viewCard(sess *session.Session) cardView {
	snap := sess.Card.Snapshot()
	return cardView{
		Profile:     viewImage(snap.Profile),
		QR:          viewImage(snap.QR),
		Template:    snap.Template,
		PhoneNumber: snap.PhoneNumber,
		DisplayName: snap.DisplayName,
		Empty:       snap.Empty(),
		Complete:    snap.Complete(),
		InProgress:  sess.Exporter.InProgress(),
	}
}

func (h *Handler) getCard(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"card": viewCard(currentSession(c))})
}

func (h *Handler) listTemplates(c *gin.Context) {
	selected := ""
	if t := currentSession(c).Card.Snapshot().Template; t != nil {
		selected = t.ID
	}
	opt := templates.FilterOptions{FreeWords: c.Query("q")}
	for _, s := range splitQuery(c.QueryArray("style")) {
		opt.Styles = append(opt.Styles, templates.BorderStyle(s))
	}
	for _, m := range splitQuery(c.QueryArray("mask")) {
		opt.Masks = append(opt.Masks, templates.Mask(m))
	}
	respond(c, http.StatusOK, gin.H{"templates": templates.Filter(h.registry.List(), opt), "selected": selected})
}

// splitQuery accepts both ?k=a&k=b and ?k=a,b.
func splitQuery(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *Handler) selectTemplate(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "template id is required"))
		return
	}
	sess := currentSession(c)
	if _, err := sess.Card.SelectTemplate(req.ID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"card": viewCard(sess)})
}

func (h *Handler) updateDetails(c *gin.Context) {
	var req struct {
		PhoneNumber *string `json:"phone_number"`
		DisplayName *string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid details"))
		return
	}
	sess := currentSession(c)
	if req.PhoneNumber != nil {
		sess.Card.SetPhoneNumber(*req.PhoneNumber)
	}
	if req.DisplayName != nil {
		sess.Card.SetDisplayName(*req.DisplayName)
	}
	respond(c, http.StatusOK, gin.H{"card": viewCard(sess)})
}

// requestFile reads the upload from a multipart "file" field, or from the
// raw body for dropped files posted directly.
func requestFile(c *gin.Context) (intake.File, func() error, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return intake.File{}, nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "no file provided")
		}
		return intake.FromMultipart(fh)
	}
	f := intake.File{
		Name:   c.GetHeader("X-File-Name"),
		Type:   c.ContentType(),
		Size:   c.Request.ContentLength,
		Reader: c.Request.Body,
	}
	return f, func() error { return nil }, nil
}

func (h *Handler) upload(c *gin.Context, in *intake.Intake, set func(*card.State, *intake.UploadedImage)) {
	file, closeFn, err := requestFile(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFn()

	sess := currentSession(c)
	img, err := in.Submit(file, recorder(c))
	if err != nil {
		respondError(c, err)
		return
	}
	set(sess.Card, img)
	respond(c, http.StatusOK, gin.H{"card": viewCard(sess)})
}

func (h *Handler) uploadProfile(c *gin.Context) {
	h.upload(c, h.profile, (*card.State).SetProfile)
}

func (h *Handler) uploadQR(c *gin.Context) {
	h.upload(c, h.qr, (*card.State).SetQR)
}

func (h *Handler) clearProfile(c *gin.Context) {
	sess := currentSession(c)
	sess.Card.ClearProfile()
	respond(c, http.StatusOK, gin.H{"card": viewCard(sess)})
}

func (h *Handler) clearQR(c *gin.Context) {
	sess := currentSession(c)
	sess.Card.ClearQR()
	respond(c, http.StatusOK, gin.H{"card": viewCard(sess)})
}

func (h *Handler) qrFromText(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "text is required"))
		return
	}
	sess := currentSession(c)
	img, err := h.qr.FromText(req.Text, recorder(c))
	if err != nil {
		respondError(c, err)
		return
	}
	sess.Card.SetQR(img)
	respond(c, http.StatusOK, gin.H{"card": viewCard(sess)})
}

func (h *Handler) preview(c *gin.Context) {
	scale := previewScale(c.Query("scale"))
	sess := currentSession(c)
	img, err := sess.Exporter.Preview(c.Request.Context(), sess.Card.Snapshot(), scale)
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		respondError(c, apperr.Wrap(apperr.ErrCodeRasterization, err, "failed to encode preview"))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, export.MIMEPNG, buf.Bytes())
}

// previewScale parses ?scale= and rounds it to quarter steps in (0,4] so
// the font cache sees a handful of sizes. Anything else means 1.
func previewScale(q string) float64 {
	v, err := strconv.ParseFloat(q, 64)
	if err != nil || v <= 0 || v > 4 {
		return 1
	}
	return math.Max(0.25, math.Round(v*4)/4)
}

type artifactView struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	DataURL string `json:"data_url"`
}

func viewArtifact(a export.Artifact) artifactView {
	return artifactView{Name: a.Name, Type: a.Type, Width: a.Width, Height: a.Height, DataURL: a.DataURL}
}

// download answers with the PNG as an attachment, or with JSON carrying the
// data URL when format=json. Notifications travel in X-Notifications for
// the binary form.
func (h *Handler) download(c *gin.Context) {
	sess := currentSession(c)
	var saved export.Artifact
	saver := export.SaverFunc(func(_ context.Context, a export.Artifact) error {
		saved = a
		return nil
	})

	if _, err := sess.Exporter.Download(c.Request.Context(), sess.Card.Snapshot(), saver, recorder(c)); err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "json" {
		respond(c, http.StatusOK, gin.H{"artifact": viewArtifact(saved)})
		return
	}
	if events, err := json.Marshal(recorder(c).Events()); err == nil {
		c.Header("X-Notifications", string(events))
	}
	c.Header("Content-Disposition", `attachment; filename="`+saved.Name+`"`)
	c.Data(http.StatusOK, saved.Type, saved.Data)
}

// share runs the share flow against the capability the browser reported
// in the "capability" query parameter: files, link or clipboard.
func (h *Handler) share(c *gin.Context) {
	sess := currentSession(c)
	p := newSharePlatform(c.Query("capability"))

	err := sess.Exporter.Share(c.Request.Context(), sess.Card.Snapshot(), p, recorder(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"share": p.payload()})
}
