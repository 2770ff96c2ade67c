package main

import "github.com/lu-zhengda/unimail/internal/cli"

func main() {
	cli.Execute()
}
