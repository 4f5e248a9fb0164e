package web

import "fmt"

// The confirmation pages are static, self-contained HTML documents shown in
// whatever browser opened the emailed link. They share one card layout and
// differ only in title, heading color and message.

const pageShell = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s - Kafex</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      min-height: 100vh;
      margin: 0;
      background: linear-gradient(135deg, #6B4423 0%%, #8B5A3C 100%%);
    }
    .container {
      background: white;
      padding: 40px;
      border-radius: 12px;
      box-shadow: 0 4px 20px rgba(0,0,0,0.2);
      text-align: center;
      max-width: 400px;
    }
    .icon {
      width: 80px;
      height: 80px;
      background: #28a745;
      border-radius: 50%%;
      display: flex;
      align-items: center;
      justify-content: center;
      margin: 0 auto 20px;
      font-size: 40px;
    }
    h1 { color: %s; margin-bottom: 20px; }
    p { color: #666; line-height: 1.6; margin-bottom: 15px; }
    .note { font-size: 14px; color: #999; margin-top: 30px; }
  </style>
</head>
<body>
  <div class="container">
%s
  </div>
</body>
</html>
`

func page(title, headingColor, content string) string {
	return fmt.Sprintf(pageShell, title, headingColor, content)
}

var (
	missingTokenPage = page("Erro", "#6B4423", `    <h1>❌ Token Inválido</h1>
    <p>O link de verificação está incompleto ou inválido.</p>
    <p>Por favor, verifique o email novamente.</p>`)

	invalidTokenPage = page("Token Inválido", "#6B4423", `    <h1>❌ Token Inválido</h1>
    <p>O link de verificação não é válido ou já foi usado.</p>`)

	alreadyVerifiedPage = page("Sucesso", "#28a745", `    <h1>✅ Email Já Verificado!</h1>
    <p>Seu email já foi verificado anteriormente.</p>
    <p>Você já pode usar o app Kafex normalmente!</p>`)

	expiredPage = page("Link Expirado", "#dc3545", `    <h1>⏱️ Link Expirado</h1>
    <p>Este link de verificação expirou.</p>
    <p>Por favor, faça login no app e solicite um novo email de verificação.</p>`)

	successPage = page("Email Verificado", "#28a745", `    <div class="icon">✓</div>
    <h1>Email Verificado!</h1>
    <p><strong>Parabéns!</strong> Seu email foi verificado com sucesso.</p>
    <p>Agora você já pode usar o app Kafex normalmente!</p>
    <p class="note">Você pode fechar esta página e voltar ao app.</p>`)

	genericErrorPage = page("Erro", "#dc3545", `    <h1>❌ Algo deu errado</h1>
    <p>Não foi possível concluir a verificação do seu email.</p>
    <p>Por favor, tente novamente mais tarde.</p>`)
)
