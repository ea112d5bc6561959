package main

// General API documentation for swaggo. docs/docs.go holds the generated spec.
//
// @title           pocketchat API
// @version         1.0
// @description     HTTP API for selecting, downloading and chatting with small local GGUF models.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
