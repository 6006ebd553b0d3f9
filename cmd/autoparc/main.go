// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command autoparc runs the AutoParc marketplace API and its maintenance
// tasks (migrations, development seed).
package main

import "autoparc/cmd/autoparc/commands"

func main() {
	commands.Execute()
}
