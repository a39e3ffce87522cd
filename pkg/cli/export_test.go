package cli

var RunServer = runServer
