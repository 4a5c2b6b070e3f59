package handler

import jsoniter "github.com/json-iterator/go"

// json serializa as requisições e respostas de todos os handlers do
// pacote, com a mesma semântica da biblioteca padrão.
var json = jsoniter.ConfigCompatibleWithStandardLibrary
