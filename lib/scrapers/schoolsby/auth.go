package schoolsby

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"dnevnik-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

const invalidCredentialsMarker = "Пожалуйста, введите правильные имя пользователя и пароль"
const classTeacherLabel = "Классный руководитель:"

var pupilIdRegex = regexp.MustCompile(`/pupil/(\d+)`)
var classNameRegex = regexp.MustCompile(`,\s*(.*?)\s*класс`)

type Profile struct {
	FullName     string `json:"fullName,omitempty"`
	ClassName    string `json:"className,omitempty"`
	AvatarUrl    string `json:"avatarUrl,omitempty"`
	ClassTeacher string `json:"classTeacher,omitempty"`
}

type Session struct {
	SessionId string  `json:"sessionid"`
	PupilId   string  `json:"pupilid"`
	Profile   Profile `json:"profile"`
}

// Login performs the portal's form login: harvest the csrf token from
// the login page, post credentials, then resolve the pupil id and
// profile from the landing pages. It returns ErrInvalidCredentials when
// the portal rejects the credentials; any other error means the flow
// broke before a session could be established.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	loginUrl := c.opts.AuthBaseUrl + "/login"

	res, err := c.http.R().
		SetContext(ctx).
		Get(loginUrl)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return Session{}, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "login page returned error status")
		return Session{}, fmt.Errorf("login page returned status %d", res.StatusCode())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page html")
		return Session{}, err
	}
	csrfToken := doc.Find("input[name=csrfmiddlewaretoken]").AttrOr("value", "")
	if csrfToken == "" {
		span.SetStatus(codes.Error, "failed to find csrf token")
		return Session{}, fmt.Errorf("could not find csrf token")
	}

	res, err = c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"csrfmiddlewaretoken": csrfToken,
			"username":            username,
			"password":            password,
			// the form is rejected without this field
			"|123": "|123",
		}).
		SetHeader("Referer", loginUrl).
		Post(loginUrl)
	if err != nil {
		span.SetStatus(codes.Error, "failed to post login form")
		return Session{}, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "login post returned error status")
		return Session{}, fmt.Errorf("login post returned status %d", res.StatusCode())
	}

	sessionId := c.sessionCookie()
	if sessionId == "" {
		span.SetStatus(codes.Error, "no session cookie after login")
		return Session{}, ErrInvalidCredentials
	}
	if strings.Contains(res.String(), invalidCredentialsMarker) {
		span.SetStatus(codes.Error, ErrInvalidCredentials.Error())
		return Session{}, ErrInvalidCredentials
	}

	pupilId, err := c.fetchPupilId(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to resolve pupil id")
		return Session{}, err
	}

	profile, err := c.fetchProfile(ctx, pupilId)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch profile")
		return Session{}, err
	}

	return Session{
		SessionId: sessionId,
		PupilId:   pupilId,
		Profile:   profile,
	}, nil
}

// fetchPupilId pulls the pupil identifier out of the profile link on
// the mobile landing page.
func (c *Client) fetchPupilId(ctx context.Context) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(c.opts.SchoolBaseUrl + "/m/")
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("landing page returned status %d", res.StatusCode())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return "", err
	}

	link, ok := htmlutil.First(doc.Selection, "a.u_name")
	if !ok {
		return "", fmt.Errorf("could not find profile link on landing page")
	}
	match := pupilIdRegex.FindStringSubmatch(link.AttrOr("href", ""))
	if match == nil {
		return "", fmt.Errorf("could not extract pupil id from profile link")
	}
	return match[1], nil
}

// fetchProfile scrapes display metadata from the pupil's profile page.
// Every field is best-effort; only a failure to fetch the page at all
// is an error.
func (c *Client) fetchProfile(ctx context.Context, pupilId string) (Profile, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/pupil/%s/", c.opts.SchoolBaseUrl, pupilId))
	if err != nil {
		return Profile{}, err
	}
	if res.IsError() {
		return Profile{}, fmt.Errorf("profile page returned status %d", res.StatusCode())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{}

	// the title reads like `Ерошенко Ефим, 10 "Б" класс, ID 1106490`
	if title, ok := htmlutil.First(doc.Selection, "div.title_box h1"); ok {
		full := htmlutil.Text(title)
		profile.FullName = strings.TrimSpace(strings.Split(full, ",")[0])
		if match := classNameRegex.FindStringSubmatch(full); match != nil {
			profile.ClassName = match[1]
		}
	}

	if img, ok := htmlutil.First(doc.Selection, "div.profile-photo__box img"); ok {
		profile.AvatarUrl = img.AttrOr("src", "")
	}

	doc.Find("div.pp_line_new").EachWithBreak(func(_ int, line *goquery.Selection) bool {
		text := htmlutil.Text(line)
		if !strings.Contains(text, classTeacherLabel) {
			return true
		}
		profile.ClassTeacher = strings.TrimSpace(strings.ReplaceAll(text, classTeacherLabel, ""))
		return false
	})

	return profile, nil
}
