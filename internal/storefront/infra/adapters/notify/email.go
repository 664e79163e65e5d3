package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
)

const senderName = "Surreal Sabor"

var ErrNoRecipient = errors.New("notify: notification has no recipient e-mail")

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier renders notifications as plain-text e-mails and sends them
// through an SMTP relay.
type EmailNotifier struct {
	addr string
	auth smtp.Auth
	from mail.Address
	send SendFunc
	now  func() time.Time
}

// NewEmailNotifier sends through host:port. Empty user disables SMTP auth.
func NewEmailNotifier(host string, port int, user, password, from string) *EmailNotifier {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &EmailNotifier{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: mail.Address{Name: senderName, Address: from},
		send: smtp.SendMail,
		now:  time.Now,
	}
}

func (e *EmailNotifier) Notify(ctx context.Context, n entity.Notification) error {
	if n.CustomerEmail == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body, err := Render(n)
	if err != nil {
		return err
	}
	to := mail.Address{Name: n.CustomerName, Address: n.CustomerEmail}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", e.from.String())
	fmt.Fprintf(&msg, "To: %s\r\n", to.String())
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", e.now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	msg.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	if err := e.send(e.addr, e.auth, e.from.Address, []string{n.CustomerEmail}, msg.Bytes()); err != nil {
		return fmt.Errorf("notify: send mail to %s: %w", n.CustomerEmail, err)
	}
	return nil
}

type statusCopy struct {
	Title   string
	Message string
}

var statusCopies = map[string]statusCopy{
	string(entity.PaymentApproved): {"Pagamento Confirmado!", "Seu pagamento foi confirmado e seu pedido está sendo preparado com carinho."},
	string(entity.OrderPreparing):  {"Preparando seu Pedido", "Nossos chefs estão preparando seus pratos com todo o carinho."},
	string(entity.OrderReady):      {"Pedido Pronto!", "Seu pedido está pronto! Entre em contato para combinar a retirada."},
	string(entity.OrderDelivered):  {"Pedido Entregue", "Seu pedido foi entregue. Bom apetite!"},
	string(entity.OrderCancelled):  {"Pedido Cancelado", "Seu pedido foi cancelado. Se você tem dúvidas, entre em contato conosco."},
}

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "R$ " + d.StringFixed(2) },
	"method": func(m entity.PaymentMethod) string {
		if m == entity.PaymentPix {
			return "PIX"
		}
		return "Boleto Bancário"
	},
	"copy": func(status string) statusCopy {
		if c, ok := statusCopies[status]; ok {
			return c
		}
		return statusCopy{Title: "Pedido Atualizado", Message: "O status do seu pedido mudou para " + status + "."}
	},
}).Parse(`{{define "order.confirmation"}}Olá, {{.CustomerName}}!

Seu pedido foi recebido com sucesso!

Detalhes do Pedido:
- Número: #{{.OrderNumber}}
- Total: {{money .TotalAmount}}
- Pagamento: {{method .PaymentMethod}}
- Status: Aguardando Pagamento

Itens do Pedido:
{{range .Items}}- {{.Name}} ({{.Quantity}}x) - {{money .TotalPrice}}
{{end}}
Próximos passos:
{{if eq (method .PaymentMethod) "PIX"}}1. Realize o pagamento via PIX{{with .PixQRCode}}
   Código PIX: {{.}}{{end}}
2. Aguarde a confirmação
3. Seu pedido será preparado{{else}}1. Pague o boleto bancário{{with .BoletoURL}}: {{.}}{{end}}
2. Aguarde a confirmação (até 2 dias úteis)
3. Seu pedido será preparado{{end}}

Dúvidas? Entre em contato:
Email: contato@surrealsabor.com.br
Telefone: (11) 99999-9999

Obrigado por escolher a Surreal Sabor!
{{end}}{{define "order.status_updated"}}{{$c := copy .Status}}{{$c.Title}}

Olá, {{.CustomerName}}!
{{$c.Message}}

Informações do Pedido:
- Número: #{{.OrderNumber}}
- Total: {{money .TotalAmount}}
- Status: {{$c.Title}}

Dúvidas? Entre em contato: contato@surrealsabor.com.br | (11) 99999-9999
{{end}}`))

// Render returns the subject and plain-text body for n.
func Render(n entity.Notification) (string, string, error) {
	var subject string
	switch n.Kind {
	case entity.NotifyOrderConfirmation:
		subject = fmt.Sprintf("Confirmação de Pedido #%s - Surreal Sabor", n.OrderNumber)
	case entity.NotifyStatusUpdate:
		subject = fmt.Sprintf("Atualização do Pedido #%s - Surreal Sabor", n.OrderNumber)
	default:
		return "", "", fmt.Errorf("notify: unknown notification kind %q", n.Kind)
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(n.Kind), n); err != nil {
		return "", "", fmt.Errorf("notify: render %s: %w", n.Kind, err)
	}
	return subject, body.String(), nil
}
