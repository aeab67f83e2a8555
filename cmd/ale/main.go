// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

// Command ale runs Atari 2600 games through the Arcade Learning Environment.
package main

func main() {
	Execute()
}
