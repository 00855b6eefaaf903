package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/ml-muebles/storefront/internal/woocommerce"

	"github.com/go-playground/validator/v10"
)

// DefaultCountry 收货国家
const DefaultCountry = "CL"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+\d\s()-]{7,20}$`)
	formValidate = newFormValidator()
)

// Form 结账表单；单一地址同时用于账单与收货
type Form struct {
	Email         string `json:"email" validate:"required,shopper_email"`
	Phone         string `json:"telefono" validate:"required,shopper_phone"`
	FirstName     string `json:"nombre" validate:"required"`
	LastName      string `json:"apellido" validate:"required"`
	Address1      string `json:"direccion" validate:"required"`
	Address2      string `json:"depto"`
	Region        string `json:"region" validate:"required"`
	City          string `json:"comuna" validate:"required"`
	Postcode      string `json:"codigoPostal" validate:"required"`
	PaymentMethod string `json:"payment_method"`
}

// FieldErrors 字段 → 文案 key
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "invalid checkout form: " + strings.Join(fields, ", ")
}

// AsFieldErrors 提取字段错误
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("shopper_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("shopper_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Normalize 去除首尾空白
func (f *Form) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Address1 = strings.TrimSpace(f.Address1)
	f.Address2 = strings.TrimSpace(f.Address2)
	f.Region = strings.TrimSpace(f.Region)
	f.City = strings.TrimSpace(f.City)
	f.Postcode = strings.TrimSpace(f.Postcode)
	f.PaymentMethod = strings.TrimSpace(f.PaymentMethod)
}

// Validate 校验表单，返回 FieldErrors；不发起任何网络请求
func (f *Form) Validate() error {
	f.Normalize()
	err := formValidate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, exists := out[field]; exists {
			continue
		}
		if fe.Tag() == "required" {
			out[field] = "checkout.field." + field + ".required"
			continue
		}
		out[field] = "checkout.field." + field + ".invalid"
	}
	return out
}

// ToAddress 转为远端地址
func (f Form) ToAddress(country string) woocommerce.Address {
	if strings.TrimSpace(country) == "" {
		country = DefaultCountry
	}
	return woocommerce.Address{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Address1:  f.Address1,
		Address2:  f.Address2,
		City:      f.City,
		State:     f.Region,
		Postcode:  f.Postcode,
		Country:   country,
		Email:     f.Email,
		Phone:     f.Phone,
	}
}
