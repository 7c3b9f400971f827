// Package messages textos que la consola muestra al usuario.
package messages

const (
	LoginSuccess       = "Login realizado com sucesso!"
	LoginFailed        = "Credenciais inválidas. Tente novamente."
	LoginRateLimited   = "Muitas tentativas de login. Aguarde um momento e tente novamente."
	RegisterFallback   = "Erro no servidor, tente novamente."
	RegisterInvalid    = "Preencha nome, e-mail válido e senha."
	ConnectionError    = "Erro de conexão. Verifique se o servidor está rodando."
	NotAuthenticated   = "Você não está autenticado. Por favor, faça login."
	ProductsLoadFailed = "Erro ao carregar os produtos."
	ProductsEmpty      = "Nenhum produto encontrado."
	DeleteConfirm      = "Tem certeza que deseja excluir este produto?"
	DeleteSuccess      = "Produto excluído com sucesso!"
	DeleteFailed       = "Erro ao excluir o produto. Verifique suas permissões."
	AddFailed          = "Erro ao adicionar o produto."
	UpdateFailed       = "Erro ao atualizar o produto."
	ProductLoadFailed  = "Erro ao carregar os dados do produto."
	InvalidPreco       = "Preço inválido."
	InvalidQuantidade  = "Quantidade inválida."
	InvalidNome        = "Informe o nome do produto."
	UsersForbidden     = "Acesso negado. Você não tem permissão para visualizar esta página."
	UsersLoadFailed    = "Erro ao carregar os usuários."
	ProfileUpdateFail  = "Erro ao atualizar o perfil."
	InvalidPerfil      = "Perfil inválido."
	PublicLoadFailed   = "Não foi possível carregar os produtos. Tente novamente mais tarde."
)
