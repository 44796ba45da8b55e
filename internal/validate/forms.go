package validate

import "strings"

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"nonblank"`
}

var loginMessages = map[string]string{
	"email":    "Invalid email. Please enter a valid email address.",
	"password": "Password cannot be empty.",
}

// Login checks the sign-in form. Fields are trimmed in place.
func Login(f *LoginForm) error {
	f.Email = strings.TrimSpace(f.Email)
	f.Password = strings.TrimSpace(f.Password)
	return check(f, loginMessages)
}

// RegisterForm is the account creation form.
type RegisterForm struct {
	Name            string `json:"name" validate:"min=3,max=25,username"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"len=10,digits,distinct"`
	Password        string `json:"password" validate:"min=8,haslower,hasupper,hasdigit,hasspecial"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

var passwordMessages = map[string]string{
	"min":        "Password must be at least 8 characters",
	"haslower":   "Password must contain at least one lowercase letter",
	"hasupper":   "Password must contain at least one uppercase letter",
	"hasdigit":   "Password must contain at least one number",
	"hasspecial": "Password must contain at least one special character",
}

var registerMessages = map[string]string{
	"name.min":                 "Username must not be less than 3 characters",
	"name.max":                 "Username must not be greater than 25 characters",
	"name.username":            "The username must contain only letters, numbers, spaces, and underscores (_)",
	"email":                    "Invalid email. Email must be a valid email address",
	"phone.len":                "Phone number must be exactly 10 digits",
	"phone.digits":             "Phone number must contain only digits",
	"phone.distinct":           "Phone number cannot consist of the same digit",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords don't match",
}

func init() {
	for tag, msg := range passwordMessages {
		registerMessages["password."+tag] = msg
		changePasswordMessages["newPassword."+tag] = msg
	}
}

// Register checks the account creation form. Every field but the phone is
// trimmed in place.
func Register(f *RegisterForm) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Password = strings.TrimSpace(f.Password)
	f.ConfirmPassword = strings.TrimSpace(f.ConfirmPassword)
	return check(f, registerMessages)
}

// ChangePasswordForm is the password reset form.
type ChangePasswordForm struct {
	OldPassword string `json:"oldPassword" validate:"nonblank"`
	NewPassword string `json:"newPassword" validate:"min=8,haslower,hasupper,hasdigit,hasspecial"`
}

var changePasswordMessages = map[string]string{
	"oldPassword": "Old password is required",
}

// ChangePassword checks the password reset form. Fields are trimmed in place.
func ChangePassword(f *ChangePasswordForm) error {
	f.OldPassword = strings.TrimSpace(f.OldPassword)
	f.NewPassword = strings.TrimSpace(f.NewPassword)
	return check(f, changePasswordMessages)
}

type titleForm struct {
	Title string `json:"title" validate:"min=4,max=25,title"`
}

const (
	titleMessage      = "Please provide a valid name for the image (at least 4 characters, no symbols)."
	batchTitleMessage = "Please provide a valid name for each image (at least 4 characters, no symbols)."
)

// Title checks one image title: 4-25 characters of letters, digits and
// spaces after trimming. It returns the trimmed title.
func Title(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if err := check(&titleForm{Title: trimmed}, map[string]string{"title": titleMessage}); err != nil {
		return "", err
	}
	return trimmed, nil
}

// UploadItem is one file of an upload batch as seen by validation.
type UploadItem struct {
	Title       string
	ContentType string
}

type uploadForm struct {
	Files []uploadFile `json:"files" validate:"min=1,max=12,dive"`
}

// The json names double as FieldErrors keys for the upload form.
type uploadFile struct {
	Title       string `json:"titles" validate:"min=4,max=25,title"`
	ContentType string `json:"files" validate:"image"`
}

var uploadMessages = map[string]string{
	"files.min":   "Please select at least one image to upload.",
	"files.max":   "You can only upload up to 12 images.",
	"files.image": "Only image files are allowed",
	"titles":      batchTitleMessage,
}

// Upload checks a batch before any network call: 1..12 files, image content
// types and a valid title for each. Titles are trimmed in place.
func Upload(items []UploadItem) error {
	form := uploadForm{Files: make([]uploadFile, len(items))}
	for i := range items {
		items[i].Title = strings.TrimSpace(items[i].Title)
		form.Files[i] = uploadFile{Title: items[i].Title, ContentType: items[i].ContentType}
	}
	return check(&form, uploadMessages)
}

// ImageType checks the content type of a replacement file on edit.
func ImageType(contentType string) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return FieldErrors{"image": uploadMessages["files.image"]}
	}
	return nil
}
