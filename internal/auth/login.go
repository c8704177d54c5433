package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jmrobles/consola-pagos/internal/domain"
	"github.com/jmrobles/consola-pagos/internal/domain/entity"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

// Client llama al servicio de autenticación externo y normaliza su respuesta.
//
// Variantes aceptadas del cuerpo de login (en orden de extracción):
//
//	V1: {"token": "...",       "user":    {...}}
//	V2: {"accessToken": "...", "usuario": {...}}
//	V3: {"jwt": "..."}                              (user sintetizado del JWT)
//	V4: {"data": {"token"|"accessToken"|"jwt", "user"|"usuario"}}
//
// El campo de token y el de user se extraen de forma independiente, así que
// las combinaciones cruzadas también se aceptan.
type Client struct {
	httpClient *http.Client
	baseURL    string
	loginPath  string
	log        *logger.Logger
}

// NewClient construye el cliente de auth. httpClient debe venir ya decorado
// con el interceptor si se quiere trazabilidad uniforme.
func NewClient(httpClient *http.Client, baseURL, loginPath string, log *logger.Logger) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL, loginPath: loginPath, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// rawLoginResponse cubre todas las variantes conocidas del servicio de auth.
type rawLoginResponse struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`

	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	JWT         string `json:"jwt"`

	User    *entity.User `json:"user"`
	Usuario *entity.User `json:"usuario"`

	Data *rawLoginData `json:"data"`
}

type rawLoginData struct {
	Token       string       `json:"token"`
	AccessToken string       `json:"accessToken"`
	JWT         string       `json:"jwt"`
	User        *entity.User `json:"user"`
	Usuario     *entity.User `json:"usuario"`
}

// Login envía email/password y devuelve token + usuario normalizados.
//
// Taxonomía de errores:
//   - 401/403            -> domain.ErrUnauthorized ("credenciales inválidas")
//   - 5xx                -> domain.ErrServer
//   - cuerpo sin token ni user, o success:false en un 2xx -> domain.ErrMalformedLogin
func (c *Client) Login(ctx context.Context, email, password string) (string, entity.User, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", entity.User{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.loginPath, bytes.NewReader(body))
	if err != nil {
		return "", entity.User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", entity.User{}, fmt.Errorf("auth: llamada de login: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", entity.User{}, domain.ErrUnauthorized
	case resp.StatusCode >= 500:
		return "", entity.User{}, domain.ErrServer
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", entity.User{}, fmt.Errorf("%w: login respondió %d", domain.ErrMalformedLogin, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", entity.User{}, err
	}
	var parsed rawLoginResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", entity.User{}, fmt.Errorf("%w: cuerpo ilegible", domain.ErrMalformedLogin)
	}

	token := extractToken(parsed)
	user, hasUser := extractUser(parsed)

	// success:false en un 2xx contradice los datos: se trata como fallo con el
	// mensaje que traiga el cuerpo.
	if parsed.Success != nil && !*parsed.Success {
		msg := parsed.Error
		if msg == "" {
			msg = parsed.Message
		}
		return "", entity.User{}, fmt.Errorf("%w: %s", domain.ErrMalformedLogin, msg)
	}
	if token == "" && !hasUser {
		return "", entity.User{}, domain.ErrMalformedLogin
	}
	if token == "" {
		return "", entity.User{}, fmt.Errorf("%w: user sin token", domain.ErrMalformedLogin)
	}
	if !hasUser {
		// Token sin user: mismo criterio que el resolver, sintetizar del JWT
		// o caer al placeholder.
		c.log.Debug().Msg("auth: login sin user en el cuerpo, sintetizando desde el token")
		synth, err := synthesizeUser(token)
		if err != nil {
			user = entity.PlaceholderUser()
		} else {
			user = synth
		}
	}
	return token, user, nil
}

// extractToken prueba las variantes en orden.
func extractToken(r rawLoginResponse) string {
	for _, t := range []string{r.Token, r.AccessToken, r.JWT} {
		if t != "" {
			return t
		}
	}
	if r.Data != nil {
		for _, t := range []string{r.Data.Token, r.Data.AccessToken, r.Data.JWT} {
			if t != "" {
				return t
			}
		}
	}
	return ""
}

// extractUser prueba las variantes en orden.
func extractUser(r rawLoginResponse) (entity.User, bool) {
	for _, u := range []*entity.User{r.User, r.Usuario} {
		if u != nil {
			return *u, true
		}
	}
	if r.Data != nil {
		for _, u := range []*entity.User{r.Data.User, r.Data.Usuario} {
			if u != nil {
				return *u, true
			}
		}
	}
	return entity.User{}, false
}
