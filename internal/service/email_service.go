package service

import (
	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/pkg"
	"Orbit_Social/internal/repository/redis"
)

const (
	ScopeRegister = "register"
	ScopeReset    = "reset"
)

var (
	ErrUnknownScope       = errs.Validation("unknown email code scope")
	ErrVerificationFailed = errs.Validation("email verification failed")
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.EmailRepository{}}
}

// SendCode mails a 6-digit code. The code is written pending first and only
// promoted to confirmed after the mail went out, so an unsent code can never
// verify.
func (s *EmailService) SendCode(scope, email string) error {
	subject, ok := map[string]string{
		ScopeRegister: "Registration verification",
		ScopeReset:    "Password reset verification",
	}[scope]
	if !ok {
		return ErrUnknownScope
	}

	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err := s.rds.SetPending(scope, email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML(subject, code, redis.DefaultEmailCodeTTL)
	if err := pkg.SendEmail(s.emailCfg, email, subject, html); err != nil {
		_ = s.rds.DeletePending(scope, email)
		return err
	}

	if err := s.rds.Promote(scope, email); err != nil {
		_ = s.rds.DeletePending(scope, email)
		return err
	}
	return nil
}

// VerifyCode checks the confirmed code and burns it on success.
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	val, err := s.rds.GetConfirmed(scope, email)
	if err != nil {
		return false, ErrVerificationFailed
	}
	if val != code {
		return false, ErrVerificationFailed
	}
	if err := s.rds.DeleteConfirmed(scope, email); err != nil {
		return false, err
	}
	return true, nil
}
