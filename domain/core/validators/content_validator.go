package validators

import (
	"fmt"
	"net/url"
	"strings"

	"techknowledgepills/domain/config"
	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/pkg/errors"
)

// ContentFields is the subset of a pill that carries rules
type ContentFields struct {
	Title    string
	Type     valueobjects.ContentType
	Body     string
	VideoURL string
	QuizData string
	Tags     []string
}

// ContentValidator validates knowledge pill rules
type ContentValidator struct {
	cfg *config.DomainConfig
}

// NewContentValidator creates a validator; nil means default limits
func NewContentValidator(cfg *config.DomainConfig) *ContentValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ContentValidator{cfg: cfg}
}

// Validate checks a pill. The first type-specific failure is returned as its
// predefined error; field length issues are aggregated.
func (v *ContentValidator) Validate(c ContentFields) error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.ErrContentTitleMissing
	}
	if !c.Type.IsValid() {
		return errors.ErrInvalidContentType
	}

	switch c.Type {
	case valueobjects.ContentTypeVideo:
		if c.VideoURL == "" {
			return errors.ErrVideoURLRequired
		}
	case valueobjects.ContentTypeQuiz:
		if c.QuizData == "" {
			return errors.ErrQuizRequired
		}
		if _, err := valueobjects.ParseQuiz(c.QuizData); err != nil {
			return errors.ErrQuizRequired.WithDetail("reason", err.Error())
		}
	}

	verrs := errors.NewValidationErrors()
	verrs.AddIf(len(c.Title) > v.cfg.MaxTitleLength, "title",
		fmt.Sprintf("must be at most %d characters", v.cfg.MaxTitleLength))
	verrs.AddIf(len(c.Body) > v.cfg.MaxBodyLength, "body",
		fmt.Sprintf("must be at most %d characters", v.cfg.MaxBodyLength))
	if err := v.validateURL(c.VideoURL); err != nil {
		verrs.Add("videoUrl", err.Error())
	}
	v.validateTags(c.Tags, verrs)
	return verrs.Err()
}

func (v *ContentValidator) validateURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a valid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}

func (v *ContentValidator) validateTags(tags []string, verrs *errors.ValidationErrors) {
	if len(tags) > v.cfg.MaxTags {
		verrs.Add("tags", fmt.Sprintf("cannot have more than %d tags", v.cfg.MaxTags))
		return
	}
	for _, tag := range tags {
		if strings.Contains(tag, ",") {
			verrs.Add("tags", fmt.Sprintf("tag %q cannot contain a comma", tag))
		}
		if len(tag) > v.cfg.MaxTagLength {
			verrs.Add("tags", fmt.Sprintf("tag %q exceeds %d characters", tag, v.cfg.MaxTagLength))
		}
	}
}
